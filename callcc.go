// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import "sync/atomic"

// ccIDCounter disambiguates nested RunCallCC invocations so that a panic
// carrying one ccSignal is never mistaken for (or caught by) a different,
// enclosing RunCallCC's recover.
var ccIDCounter atomic.Uint64

func nextCCID() uint64 { return ccIDCounter.Add(1) }

// ccSignal is the payload a CC's invocation panics with. Panic/recover is
// this package's rendition of "resume the awaiter's continuation directly,
// skipping every intermediate frame": a Go panic unwinds straight to the
// nearest matching recover regardless of how many plain function calls sit
// in between, which is exactly Shift/Reset's "skip every frame between
// here and the delimiter" contract — and, unlike the original's raw
// coroutine-handle transfer, it also runs the skipped frames' deferred
// cleanup on the way past, rather than leaving them to leak.
type ccSignal[T any] struct {
	id  uint64
	v   T
	err error
}

// CC is a first-class, copyable handle to the awaiter of the CallCCTask
// that produced it. Invoking it (Invoke or InvokeError) resumes that
// awaiter directly with a result, short-circuiting every frame between the
// call site and the originating RunCallCC — however deeply nested the
// call site is. At most one invocation may succeed; CC is built directly
// on Affine for that contract, so a second invocation panics exactly the
// way a second Affine.Resume would.
type CC[T any] struct {
	id     uint64
	invoke *Affine[struct{}, ccPayload[T]]
}

type ccPayload[T any] struct {
	v   T
	err error
}

func newCC[T any](id uint64) CC[T] {
	return CC[T]{
		id: id,
		invoke: Once(func(p ccPayload[T]) struct{} {
			panic(ccSignal[T]{id: id, v: p.v, err: p.err})
		}),
	}
}

// Invoke resumes the awaiter with v. Never returns normally.
func (c CC[T]) Invoke(v T) {
	c.invoke.Resume(ccPayload[T]{v: v})
}

// InvokeError resumes the awaiter with a failure instead of a value —
// the rendition of call_with_exception. Never returns normally.
func (c CC[T]) InvokeError(err error) {
	c.invoke.Resume(ccPayload[T]{err: err})
}

// RunCallCC is the delimiter (Reset) a captured continuation (CC) resumes
// past: it runs body, handing it a CC[T] that body — or anything body
// calls, at any depth — may invoke at most once to produce RunCallCC's
// result directly, bypassing every frame in between.
func RunCallCC[T any](body func(cc CC[T]) (T, error)) (result T, err error) {
	id := nextCCID()
	cc := newCC[T](id)
	func() {
		defer func() {
			if r := recover(); r != nil {
				sig, ok := r.(ccSignal[T])
				if !ok || sig.id != id {
					panic(r)
				}
				result, err = sig.v, sig.err
			}
		}()
		result, err = body(cc)
	}()
	return result, err
}

// CallCCBody is the computation a CallCCTask runs: it receives its own
// CC[T] directly as an argument — the rendition of get_cc(), since Go has
// no await-transform to retrieve it implicitly mid-body.
type CallCCBody[T any] func(cc CC[T]) (T, error)

// CallCCTask is a Task whose body can acquire a CC[T] and use it to
// return out of arbitrarily nested helper calls in one step.
type CallCCTask[T any] struct {
	fr      frame
	awaited atomic.Bool
	body    CallCCBody[T]
}

// NewCallCC constructs a call/cc task. No part of body runs until Await.
func NewCallCC[T any](body CallCCBody[T]) *CallCCTask[T] {
	return &CallCCTask[T]{body: body}
}

// Await runs the body, consuming the task. A second call panics.
func (t *CallCCTask[T]) Await() (T, error) {
	if !t.awaited.CompareAndSwap(false, true) {
		panic(errDoubleAwait)
	}
	defer t.fr.destroy(nil)
	return RunCallCC(t.body)
}
