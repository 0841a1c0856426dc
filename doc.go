// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package kontrol provides a small set of structured asynchronous task
// primitives for single-goroutine, cooperative control flow: a lazy
// single-shot [Task], a fire-and-forget [DetachedTask], a fork/join
// hybrid [SemiDetachedTask], a one-shot call/cc ([CallCCTask] and [CC]),
// and a begin/commit/rollback [Transaction].
//
// # Why a substrate at all
//
// Go has no compiler-lowered suspendable function. Every suspension point
// in this package therefore bottoms out in an ordinary Go mechanism
// instead: a plain function call for [Task], [DetachedTask], and
// [Transaction]; a goroutine handoff for the forked remainder of a
// [SemiDetachedTask]; panic/recover for a [CC] invocation skipping past
// arbitrarily many intermediate calls. Calling a closure and getting a
// value back already gives the plain-call primitives their ordering
// guarantee for free — there is no separate "resume the next frame" step
// to get wrong, because Go's own call/return is that step. What Go does
// not give for free is "destroyed exactly once" bookkeeping, since
// garbage collection makes destruction silent; a small internal frame
// type (frame.go) supplies just that half, embedded in every task type
// below.
//
// # Task
//
// [Task] is lazy and single-shot: constructing one does no work, and
// [Task.Await] may be called exactly once. Use [Await] from inside
// another task's body to await a child and receive structural stop
// propagation into the enclosing [Scope]; use [Task.SyncAwait] (an alias
// for Await under a name that says what it is for) to drain a task from
// outside any body, as several tests in this package do to observe a
// result. [MapTask] and [BindTask] sequence tasks the way a map/bind pair
// sequences any other monadic value, built from [Await] rather than from
// a separate continuation type, since a task body is already a plain Go
// closure.
//
// # DetachedTask
//
// [DetachedTask] is fire-and-forget: [DetachedTask.Start] consumes it and
// runs the whole body immediately, since nothing is awaiting it and so
// nothing can be symmetric-transferred into. A body that fails produces
// a [DetachedExitError] — ownership of the task's frame passes to that
// error value, released by [DetachedExitError.Release] or, if forgotten,
// eventually by a GC-driven cleanup.
//
// # SemiDetachedTask
//
// [SemiDetachedTask] forks: the body calls [ForkScope.ForkReturn] to hand
// a value to its awaiter, then keeps running — on its own goroutine, the
// only way in Go for "the awaiter proceeds" and "the rest of the body
// keeps running" to be true at once without an external executor.
// [SemiDetachedTask.Wait] observes the detached remainder's eventual
// outcome.
//
// # CallCCTask and CC
//
// [CallCCTask] runs a body that receives its own [CC] handle directly (in
// place of an implicit get_cc()). Invoking a [CC], via [CC.Invoke] or
// [CC.InvokeError], resumes the task's awaiter immediately, skipping
// every intermediate call on the way — implemented with panic/recover
// ([RunCallCC]), which is this package's rendition of delimited control
// (Shift/Reset in the usual formulation: control flow that bypasses
// arbitrarily many frames between a capture point and its delimiter).
// A [CC] may be invoked at most once; it is built on [Affine] for that
// guarantee.
//
// # Transaction
//
// [Transaction] runs begin, then a body, then commit or rollback
// depending on whether the body failed — and guarantees rollback even if
// the body panics partway through, via a deferred check of the
// transaction's status. [TxScope.EagerRollback] rolls back mid-body and
// marks the transaction done, so the final dispatch becomes a no-op;
// [TxScope.BeginResult] exposes whatever the begin phase produced. A
// subject customizes all three phases by implementing [Transactable], or,
// for subjects that cannot implement methods directly, via the
// [AsTransactable] adapter. [Transaction.Drop] discards a transaction
// that was never awaited; since a transaction's status is need_rollback
// from construction (begin only actually runs on the first Await), Drop
// still rolls back.
//
// # Structural stop
//
// [Stopped] is the sentinel a task returns to signal cancellation. There
// is no shared cancellation token to poll: propagation is a property of
// what each [Task] body returns, observed by [Await] into the enclosing
// [Scope] and either forwarded (by returning it again) or recovered (via
// [CatchStopped]). [RunRoot] is the root of a task tree: an unrecovered
// Stopped reaching it is the structural-cancellation default, rendered as
// a panic carrying [ErrNoStoppedHandler].
//
// # Resource safety
//
// [Bracket] and [OnError] are the two-phase acquire/release primitives
// [Transaction] generalizes to three phases with status tracking.
package kontrol
