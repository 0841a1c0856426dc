// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol_test

import (
	"errors"
	"sync"
	"testing"

	"go.lattice.dev/kontrol"
)

// S6: the awaiter observes the forked value, and the "after" work runs
// detached, concurrently with the awaiter once the value has been handed
// over; the test checks that it runs, not how it interleaves.
func TestSemiDetachedForkThenContinuesDetached(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	task := kontrol.NewSemiDetached(func(scope *kontrol.ForkScope[int]) error {
		scope.ForkReturn(42)
		record("after")
		return nil
	})

	v, err := task.Await()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
	record("awaiter-continued")

	if err := task.Wait(); err != nil {
		t.Fatalf("unexpected tail error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	found := false
	for _, e := range order {
		if e == "after" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the post-fork continuation to run")
	}
}

// P4: forking, then failing, still delivers the forked value to the
// awaiter — the failure takes the detached path instead.
func TestSemiDetachedFailureAfterForkTakesDetachedPath(t *testing.T) {
	boom := errors.New("boom")
	task := kontrol.NewSemiDetached(func(scope *kontrol.ForkScope[int]) error {
		scope.ForkReturn(7)
		return boom
	})
	v, err := task.Await()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 {
		t.Fatalf("got %d, want 7", v)
	}
	tailErr := task.Wait()
	if !errors.Is(tailErr, boom) {
		t.Fatalf("got %v, want wrapping %v", tailErr, boom)
	}
}

// A body that fails before ever forking routes its failure straight to
// the awaiter unwrapped, the same as a plain Task's failure.
func TestSemiDetachedFailureBeforeForkRoutesToAwaiter(t *testing.T) {
	boom := errors.New("boom")
	task := kontrol.NewSemiDetached(func(scope *kontrol.ForkScope[int]) error {
		return boom
	})
	_, err := task.Await()
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestSemiDetachedDoubleAwaitPanics(t *testing.T) {
	task := kontrol.NewSemiDetached(func(scope *kontrol.ForkScope[int]) error {
		scope.ForkReturn(1)
		return nil
	})
	if _, err := task.Await(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	task.Wait()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second Await")
		}
	}()
	task.Await()
}
