// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import (
	"runtime"
	"sync/atomic"
)

// DetachedBody is the computation a DetachedTask runs: fire-and-forget,
// with nothing left to hand a result to, so it only reports failure.
type DetachedBody func(scope *Scope) error

// DetachedTask is a fire-and-forget computation: Start consumes it and
// runs the body to completion immediately (there is no awaiter to
// symmetric-transfer into, so nothing is left suspended once Start
// returns). A second Start panics (errDoubleStart) — the rendition of a
// detached_task's consuming, asserting start().
type DetachedTask struct {
	fr      frame
	started atomic.Bool
	body    DetachedBody
}

// NewDetached constructs a fire-and-forget task. No part of body runs
// until Start is called.
func NewDetached(body DetachedBody) *DetachedTask {
	return &DetachedTask{body: body}
}

// Start runs the body to completion now and destroys the frame. If the
// body fails, the frame survives inside the returned *DetachedExitError —
// ownership transfers to whoever holds that error, which releases the
// frame itself on Release or, if forgotten, via a GC-driven cleanup
// (runtime.AddCleanup), mirroring the original's shared_ptr-with-deleter
// handle: either the explicit call or eventual collection runs destroy,
// but it runs exactly once either way.
func (d *DetachedTask) Start() error {
	if !d.started.CompareAndSwap(false, true) {
		panic(errDoubleStart)
	}
	err := d.body(&Scope{})
	if err != nil {
		return newDetachedExitError(err, &d.fr)
	}
	d.fr.destroy(nil)
	return nil
}

func newDetachedExitError(cause error, fr *frame) *DetachedExitError {
	e := &DetachedExitError{cause: cause, fr: fr}
	runtime.AddCleanup(e, func(f *frame) { f.destroy(nil) }, fr)
	return e
}

// Release destroys the frame a DetachedExitError still owns. Idempotent;
// safe to call even if the runtime cleanup already ran. Tests that need
// deterministic "frame destroyed" timing should call this explicitly
// rather than relying on garbage collection.
func (e *DetachedExitError) Release() {
	if e.fr != nil {
		e.fr.destroy(nil)
	}
}
