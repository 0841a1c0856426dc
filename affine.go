// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import "sync/atomic"

// Affine enforces "invoked at most once" on an arbitrary continuation —
// the one guarantee §4.6 places on a CC: once some caller has resumed the
// callcc_task's awaiter, every other holder of the same handle must find
// the seat taken, never silently overwrite the result, and never run the
// underlying continuation twice. CC (callcc.go) is the only user of this
// type in this package: a CC literally is an Affine whose continuation
// panics with the awaiter's result, so the one-shot bookkeeping below is
// exactly the bookkeeping a copyable-but-single-fire handle needs.
type Affine[R, A any] struct {
	fired  atomic.Bool
	resume func(A) R
}

// Once wraps k so that it can be resumed at most once. k itself never
// needs to guard against re-entry; Affine does that for it.
func Once[R, A any](k func(A) R) *Affine[R, A] {
	return &Affine[R, A]{resume: k}
}

// Resume invokes the wrapped continuation with v. Panics if some earlier
// call (on any copy of this same handle) already claimed the one
// allowed invocation — the contract violation a doubly-invoked CC must
// raise.
func (a *Affine[R, A]) Resume(v A) R {
	if !a.fired.CompareAndSwap(false, true) {
		panic("kontrol: affine continuation resumed twice")
	}
	return a.resume(v)
}

// TryResume is Resume without the panic: it reports whether this call
// was the one that fired, so a caller that cannot rule out racing with
// another holder of the same handle can fail gracefully instead.
func (a *Affine[R, A]) TryResume(v A) (R, bool) {
	if !a.fired.CompareAndSwap(false, true) {
		var zero R
		return zero, false
	}
	return a.resume(v), true
}

// Discard claims the one allowed invocation without running the
// continuation — for a holder that has decided it will never call this
// handle and wants every later Resume/TryResume to observe that.
func (a *Affine[R, A]) Discard() {
	a.fired.Store(true)
}
