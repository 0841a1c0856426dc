// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import "sync/atomic"

// frame is the lifecycle record every task handle embeds: it tracks
// whether the underlying computation has been destroyed, at most once.
//
// A real coroutine frame conflates two separate concerns: resuming
// (transferring control into the suspended computation) and destroying
// (releasing the frame's storage). Go's call/return already gives every
// task type in this package its "resume" half for free — calling a
// closure and getting a value back is itself the symmetric transfer. What
// Go does not give for free is the "destroyed exactly once" bookkeeping
// the spec's P3/P9 properties test for, since garbage collection makes
// destruction observationally silent. frame supplies just that half.
type frame struct {
	destroyed atomic.Bool
}

// destroy runs cleanup exactly once; later calls are no-ops. Reports
// whether this call performed the destruction.
func (f *frame) destroy(cleanup func()) bool {
	if !f.destroyed.CompareAndSwap(false, true) {
		return false
	}
	if cleanup != nil {
		cleanup()
	}
	return true
}

func (f *frame) isDestroyed() bool { return f.destroyed.Load() }
