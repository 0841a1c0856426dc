// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import "sync/atomic"

// ForkScope extends Scope with the one operation a semi-detached body
// adds to the vocabulary: ForkReturn, the fork_return point.
type ForkScope[T any] struct {
	*Scope
	forkCh chan T
	forked atomic.Bool
}

// ForkReturn publishes v to whoever is awaiting this task and lets the
// body's own Go function continue running — that continuation now runs
// "detached": nothing is awaiting it any further, and any error it
// eventually returns takes the same path as a DetachedTask's. A body
// must call ForkReturn exactly once before returning; returning without
// ever forking, when no error is also being reported, is a contract
// violation (errForkMissing), just as a non-void coroutine falling off
// the end without co_return would be.
func (f *ForkScope[T]) ForkReturn(v T) {
	if !f.forked.CompareAndSwap(false, true) {
		panic("kontrol: ForkReturn called twice")
	}
	f.forkCh <- v
}

func (f *ForkScope[T]) didFork() bool { return f.forked.Load() }

// ForkedBody is the computation a SemiDetachedTask runs: it may fork via
// scope.ForkReturn, after which the function keeps running detached, or
// it may fail before ever forking, in which case the awaiter receives the
// failure directly (the cell-still-empty routing rule of §4.5).
type ForkedBody[T any] func(scope *ForkScope[T]) error

// SemiDetachedTask is the fork_return hybrid: awaiting it returns as soon
// as the body forks (or fails before forking); whatever the body does
// after forking keeps running concurrently, on its own goroutine, since
// that is the only way in Go for "the awaiter proceeds" and "the body's
// remainder keeps running" to be true at the same time without an
// external executor (out of scope here, as it is in the original).
type SemiDetachedTask[T any] struct {
	fr       frame
	started  atomic.Bool
	body     ForkedBody[T]
	done     chan struct{}
	tailErr  error
}

// NewSemiDetached constructs a semi-detached task. No part of body runs
// until Await is called.
func NewSemiDetached[T any](body ForkedBody[T]) *SemiDetachedTask[T] {
	return &SemiDetachedTask[T]{body: body}
}

// Await starts the body and blocks only until it forks or fails before
// forking. Calling Await twice panics.
func (s *SemiDetachedTask[T]) Await() (T, error) {
	if !s.started.CompareAndSwap(false, true) {
		panic(errDoubleAwait)
	}
	s.done = make(chan struct{})
	forkCh := make(chan T)
	failCh := make(chan error, 1)
	scope := &ForkScope[T]{Scope: &Scope{}, forkCh: forkCh}

	go func() {
		defer close(s.done)
		err := s.body(scope)
		if !scope.didFork() {
			if err == nil {
				panic(errForkMissing)
			}
			failCh <- err
			return
		}
		if err != nil {
			s.tailErr = newDetachedExitError(err, &s.fr)
			return
		}
		s.fr.destroy(nil)
	}()

	select {
	case v := <-forkCh:
		return v, nil
	case err := <-failCh:
		var zero T
		return zero, err
	}
}

// Wait blocks until the detached remainder of a forked body has finished
// (a no-op if the body never reached Await, or failed before forking) and
// returns its error, if any. This is the handle onto "the body then
// resumes from the fork_return point running detached" that the public
// Await return value, by construction, cannot observe.
func (s *SemiDetachedTask[T]) Wait() error {
	if s.done == nil {
		return nil
	}
	<-s.done
	return s.tailErr
}
