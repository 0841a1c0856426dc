// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import "errors"

// Stopped is the sentinel structural-cancellation error. A task propagates
// it by simply returning it like any other error; an ancestor recovers by
// checking errors.Is(err, Stopped) (see CatchStopped) instead of forwarding
// it further. There is no cooperative cancellation token: forwarding is a
// property of what each frame returns, not of a shared flag any frame polls.
var Stopped = errors.New("kontrol: stopped")

// ErrNoStoppedHandler is the panic value raised by RunRoot when Stopped
// reaches the root of a task tree unrecovered — the structural-cancellation
// default of terminating rather than resuming with no meaningful value.
var ErrNoStoppedHandler = errors.New("kontrol: unhandled stopped propagation reached the root")

// Contract-violation panics. These never occur from ordinary data,
// only from misuse of the single-shot contracts each task type enforces.
var (
	errDoubleAwait    = errors.New("kontrol: task already awaited")
	errDoubleStart    = errors.New("kontrol: detached task already started")
	errForkMissing    = errors.New("kontrol: semi-detached body completed without ForkReturn")
	errCellWriteTwice = errors.New("kontrol: result cell written twice")
	errCellTakeEmpty  = errors.New("kontrol: take on empty result cell")
)

// DetachedExitError wraps an error that escaped an unawaited DetachedTask
// (or the post-fork remainder of a SemiDetachedTask). There is no coroutine
// caller left to hand the error to directly, so it surfaces as a distinct
// wrapped type instead — the caller of Start (or Wait) receives this, not
// the bare cause.
type DetachedExitError struct {
	cause error
	fr    *frame
}

func (e *DetachedExitError) Error() string {
	return "kontrol: detached task exited with an unhandled error: " + e.cause.Error()
}

func (e *DetachedExitError) Unwrap() error { return e.cause }
