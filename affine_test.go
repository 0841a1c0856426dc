// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol_test

import (
	"sync"
	"testing"

	"go.lattice.dev/kontrol"
)

// Affine is exercised directly here because it is the one piece of this
// module's CC implementation (callcc.go) worth testing in isolation: CC
// is, structurally, an Affine whose continuation panics with the
// awaiter's result (see ccSignal in callcc.go). A slot that can be
// filled at most once, mirroring a ccPayload resumption, stands in for
// that without dragging in the full RunCallCC delimiter machinery
// exercised separately in callcc_test.go.
type slotWrite struct {
	winner string
}

func newSlotAffine(slot *slotWrite, who string) *kontrol.Affine[struct{}, int] {
	return kontrol.Once(func(v int) struct{} {
		slot.winner = who
		return struct{}{}
	})
}

func TestAffineFirstResumeWins(t *testing.T) {
	var slot slotWrite
	handle := newSlotAffine(&slot, "first")

	handle.Resume(1)
	if slot.winner != "first" {
		t.Fatalf("slot.winner = %q, want %q", slot.winner, "first")
	}

	if _, ok := handle.TryResume(2); ok {
		t.Fatal("TryResume must fail once the one allowed invocation is spent")
	}
	if slot.winner != "first" {
		t.Fatalf("a failed TryResume must not overwrite the winner, got %q", slot.winner)
	}
}

func TestAffineSecondResumePanics(t *testing.T) {
	handle := kontrol.Once(func(v int) int { return v })
	handle.Resume(10)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic on the second Resume")
		}
		if s, ok := r.(string); !ok || s != "kontrol: affine continuation resumed twice" {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	handle.Resume(20)
}

func TestAffineDiscardThenInvokeBehavesAsAlreadyFired(t *testing.T) {
	ran := false
	handle := kontrol.Once(func(v int) int { ran = true; return v })
	handle.Discard()

	if _, ok := handle.TryResume(1); ok {
		t.Fatal("TryResume must fail after Discard claimed the invocation")
	}
	if ran {
		t.Fatal("Discard must not run the continuation")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected Resume after Discard to panic, same as a genuine second invocation")
		}
	}()
	handle.Resume(2)
}

// This is the property CC actually relies on: when a handle has been
// copied out to multiple holders — exactly what a copyable CC allows —
// at most one of them ever gets to run the continuation, no matter how
// many race to invoke it at once.
func TestAffineConcurrentInvokersRaceToExactlyOneWinner(t *testing.T) {
	const holders = 64
	var slot slotWrite
	var mu sync.Mutex
	handle := kontrol.Once(func(v int) struct{} {
		mu.Lock()
		defer mu.Unlock()
		slot.winner = "holder"
		return struct{}{}
	})

	var wg sync.WaitGroup
	wins := make(chan bool, holders)
	wg.Add(holders)
	for i := 0; i < holders; i++ {
		go func(i int) {
			defer wg.Done()
			_, ok := handle.TryResume(i)
			wins <- ok
		}(i)
	}
	wg.Wait()
	close(wins)

	won := 0
	for ok := range wins {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly 1 of %d concurrent holders to win, got %d", holders, won)
	}
}

func BenchmarkAffineOnceAndDiscard(b *testing.B) {
	for b.Loop() {
		kontrol.Once(func(int) int { return 0 }).Discard()
	}
}
