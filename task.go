// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import (
	"errors"
	"sync/atomic"
)

// Body is the suspendable computation a Task runs. It receives a Scope,
// the body-side vocabulary for awaiting nested tasks, and returns its
// result or failure — this package's rendition of "co_return value" and
// "an unhandled exception leaves the coroutine" at once.
type Body[T any] func(scope *Scope) (T, error)

// Scope is handed to a running task body. It exists so that structural
// stop propagation (the continuation slot's stop-forwarding half, C2) has
// somewhere to live: each nested Await observes whether its child ended in
// Stopped and records it here. CatchStopped does not read this record; a
// body decides to recover rather than forward by passing the error it got
// back from Await to CatchStopped.
type Scope struct {
	stopped bool
}

// Await runs t to completion and returns its outcome; like Task.Await, it
// panics if t was already awaited. If the child
// ended in Stopped, the scope remembers it, exactly as a continuation
// slot remembers that the frame it points to implements unhandledStopped.
func Await[T any](scope *Scope, t *Task[T]) (T, error) {
	v, err := t.Await()
	if errors.Is(err, Stopped) {
		scope.stopped = true
	}
	return v, err
}

// CatchStopped lets a body recover from a propagated Stopped instead of
// forwarding it: if err is Stopped, recover's result replaces (v, err);
// otherwise (v, err) passes through untouched.
func CatchStopped[T any](v T, err error, recover func() (T, error)) (T, error) {
	if errors.Is(err, Stopped) {
		return recover()
	}
	return v, err
}

// RunRoot drives t as the unawaited root of a task tree — the role no
// Scope plays, because nothing is awaiting this task in turn. If the
// result is Stopped and nothing recovered it on the way up, this is the
// structural-cancellation default (§2/C2): the process terminates, here
// rendered as a panic carrying ErrNoStoppedHandler.
func RunRoot[T any](t *Task[T]) (T, error) {
	v, err := t.Await()
	if errors.Is(err, Stopped) {
		panic(ErrNoStoppedHandler)
	}
	return v, err
}

// Task is a lazy, single-shot computation: constructing one does no work;
// the body runs exactly once, on the first (and only permitted) call to
// Await. Awaiting a second time panics (errDoubleAwait), mirroring a
// moved-from coroutine handle being co_await'd twice.
//
// Because a Task's body is a plain Go closure, nested awaits are ordinary
// function calls: the continuation of an awaited child runs synchronously,
// on the same goroutine, with nothing else able to interleave — Go's own
// call/return gives this package the ordering guarantee (P2) a real
// coroutine's symmetric transfer exists to provide, without this package
// needing to model frame resumption explicitly.
type Task[T any] struct {
	fr      frame
	cell    Cell[T]
	body    Body[T]
	awaited atomic.Bool
}

// NewTask constructs a lazy Task from body. No part of body runs until
// Await is called.
func NewTask[T any](body Body[T]) *Task[T] {
	return &Task[T]{body: body}
}

// Await runs the body, consuming the task. Calling Await a second time
// panics. Dropping a Task without ever calling Await is safe: the body
// never ran, so there is nothing to roll back (see Drop).
func (t *Task[T]) Await() (T, error) {
	if !t.awaited.CompareAndSwap(false, true) {
		panic(errDoubleAwait)
	}
	scope := &Scope{}
	v, err := t.body(scope)
	if err != nil {
		t.cell.SetFailure(err)
	} else {
		t.cell.SetValue(v)
	}
	t.fr.destroy(nil)
	return t.cell.Take()
}

// SyncAwait is Await under another name, kept distinct for call sites that
// want to make explicit they are synchronously draining a task outside of
// any enclosing Scope — the "drive to completion" pattern several of this
// package's tests use (there is no executor here to drive a Task any other
// way).
func (t *Task[T]) SyncAwait() (T, error) { return t.Await() }

// Drop destroys the task's frame without running its body. Safe to call
// at most once per task that was never awaited; calling it after Await
// is a harmless no-op since the frame is already destroyed.
func (t *Task[T]) Drop() {
	t.fr.destroy(nil)
}

// MapTask sequences a pure transformation after awaiting t — the
// task-domain analogue of Map, built from Await rather than from a separate
// continuation type, since task bodies compose via plain calls, not
// continuation chaining.
func MapTask[A, B any](t *Task[A], f func(A) B) *Task[B] {
	return NewTask(func(scope *Scope) (B, error) {
		v, err := Await(scope, t)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(v), nil
	})
}

// BindTask sequences a task-producing continuation after awaiting t — the
// task-domain analogue of Bind.
func BindTask[A, B any](t *Task[A], f func(A) *Task[B]) *Task[B] {
	return NewTask(func(scope *Scope) (B, error) {
		v, err := Await(scope, t)
		if err != nil {
			var zero B
			return zero, err
		}
		return Await(scope, f(v))
	})
}
