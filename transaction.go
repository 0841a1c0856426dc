// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import (
	"errors"
	"sync/atomic"
)

// Transactable is the customization point a transaction subject
// implements: begin, commit, and rollback. Go's method sets are the
// native equivalent of the original's member-lookup customization path;
// AsTransactable below supplies the free-function fallback for subjects
// that cannot implement methods directly.
type Transactable[B any] interface {
	TransactionBegin() (B, error)
	TransactionCommit() error
	TransactionRollback() error
}

// AsTransactable adapts three free functions operating on subject into a
// Transactable — this package's rendition of the original's ADL
// (argument-dependent lookup) customization fallback, for subjects such
// as built-in types or values from another package whose method set
// cannot be extended.
func AsTransactable[S, B any](subject S, begin func(S) (B, error), commit, rollback func(S) error) Transactable[B] {
	return &adHocTransactable[S, B]{subject: subject, begin: begin, commit: commit, rollback: rollback}
}

type adHocTransactable[S, B any] struct {
	subject  S
	begin    func(S) (B, error)
	commit   func(S) error
	rollback func(S) error
}

func (a *adHocTransactable[S, B]) TransactionBegin() (B, error) { return a.begin(a.subject) }
func (a *adHocTransactable[S, B]) TransactionCommit() error     { return a.commit(a.subject) }
func (a *adHocTransactable[S, B]) TransactionRollback() error   { return a.rollback(a.subject) }

// txStatus tracks which terminal phase a transaction still owes. It
// starts at needRollback — "nothing has committed yet, so if we stop now,
// roll back" — exactly the original's invariant that need_rollback, not
// done, is the initial state.
type txStatus int32

const (
	txNeedRollback txStatus = iota
	txNeedCommit
	txDone
)

// TxBody is the computation a Transaction runs between begin and the
// final commit-or-rollback dispatch.
type TxBody[B, T any] func(scope *TxScope[B]) (T, error)

// TxScope is handed to a running transaction body: it exposes the begin
// phase's result (BeginResult, the rendition of begin_result()) and the
// eager-rollback escape hatch (EagerRollback).
type TxScope[B any] struct {
	beginResult B
	status      *txStatus
	rollback    func() error
}

// BeginResult returns the value the begin phase produced.
func (s *TxScope[B]) BeginResult() B { return s.beginResult }

// EagerRollback rolls back immediately, mid-body, and marks the
// transaction done so the final phase dispatch becomes a no-op — the
// rendition of the original's eager_rollback().
func (s *TxScope[B]) EagerRollback() error {
	if *s.status == txDone {
		return nil
	}
	err := s.rollback()
	*s.status = txDone
	return err
}

// Transaction is the begin→body→commit-or-rollback lifecycle: Await runs
// begin, then body, then commits if body succeeded (and did not eagerly
// roll back) or rolls back otherwise. If body panics, or the Go stack
// otherwise unwinds through Await before a terminal status is reached,
// rollback still runs — guaranteed-rollback-on-drop (§4.7), here
// triggered by the same mechanism Go itself provides for "this frame is
// being abandoned": a deferred function observing an unwind in progress.
type Transaction[S Transactable[B], B, T any] struct {
	fr      frame
	subject S
	body    TxBody[B, T]
	trace   TraceSink
	awaited atomic.Bool
}

// NewTransaction constructs a transaction over subject. No phase runs
// until Await is called.
func NewTransaction[S Transactable[B], B, T any](subject S, body TxBody[B, T]) *Transaction[S, B, T] {
	return &Transaction[S, B, T]{subject: subject, body: body}
}

// WithTrace attaches a TraceSink that observes "begin", "body", "commit",
// and "rollback" events, in the order they occur. Returns tx for
// chaining.
func (tx *Transaction[S, B, T]) WithTrace(sink TraceSink) *Transaction[S, B, T] {
	tx.trace = sink
	return tx
}

// Await runs the transaction to completion, consuming it. A second call
// panics.
func (tx *Transaction[S, B, T]) Await() (result T, err error) {
	if !tx.awaited.CompareAndSwap(false, true) {
		panic(errDoubleAwait)
	}

	tx.trace.emit("begin")
	beginResult, berr := tx.subject.TransactionBegin()
	if berr != nil {
		tx.fr.destroy(nil)
		return result, berr
	}

	status := txNeedRollback
	scope := &TxScope[B]{beginResult: beginResult, status: &status, rollback: func() error {
		tx.trace.emit("rollback")
		return tx.subject.TransactionRollback()
	}}

	defer func() {
		if status == txNeedRollback {
			// The body panicked, or the stack is otherwise unwinding
			// before reaching a terminal status: this is "dropped
			// outside the await machinery" (§4.7 item 4). Roll back
			// now, swallow any failure from the rollback itself, and
			// let the original unwind continue unmodified.
			tx.trace.emit("rollback")
			func() {
				defer func() { recover() }()
				tx.subject.TransactionRollback()
			}()
			status = txDone
		}
		tx.fr.destroy(nil)
	}()

	tx.trace.emit("body")
	v, bodyErr := tx.body(scope)

	switch {
	case status == txDone:
		// Eager rollback already ran inside the body.
		err = bodyErr
	case bodyErr == nil:
		tx.trace.emit("commit")
		err = tx.subject.TransactionCommit()
		status = txDone
	default:
		tx.trace.emit("rollback")
		rbErr := tx.subject.TransactionRollback()
		status = txDone
		if rbErr != nil {
			err = errors.Join(bodyErr, rbErr)
		} else {
			err = bodyErr
		}
	}

	if err == nil {
		result = v
	}
	return result, err
}

// Drop discards the transaction without ever calling Await. A
// transaction's status is need_rollback from construction — begin only
// actually runs on the first Await, so a dropped-before-awaited
// transaction is, by definition, still in need_rollback — and §4.7 item 4
// requires rollback to run at least once whenever a transaction is
// destroyed in that state, not only when Await started and then
// unwound. Any error rollback itself raises here is swallowed, matching
// the same swallow-on-destruction rule Await's own deferred rollback
// uses. Calling Drop after Await has already run (or is running) is a
// harmless no-op: Await's own status-tracked rollback-on-unwind path
// already owns this frame's destruction.
func (tx *Transaction[S, B, T]) Drop() {
	if !tx.awaited.CompareAndSwap(false, true) {
		return
	}
	tx.trace.emit("rollback")
	func() {
		defer func() { recover() }()
		tx.subject.TransactionRollback()
	}()
	tx.fr.destroy(nil)
}
