// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

// cellState tracks which of the three states a Cell occupies.
type cellState uint8

const (
	cellEmpty cellState = iota
	cellValue
	cellFailure
)

// Cell is the tri-state result storage a Task writes its outcome into (the
// other task types return their results directly): empty until the underlying computation
// completes, then exactly one of a value or a failure. V may be any type,
// including a pointer, which is this package's rendition of "the same
// storage specialized for reference semantics": a Cell[*T] stores the
// address, not a copy.
//
// Writing twice panics (errCellWriteTwice); taking before a write panics
// (errCellTakeEmpty). Both are contract violations a well-formed task
// implementation in this package never triggers on its own — they exist
// to catch misuse, not to model recoverable data errors.
type Cell[V any] struct {
	state cellState
	value V
	err   error
}

// IsEmpty reports whether the cell has not yet been written.
func (c *Cell[V]) IsEmpty() bool { return c.state == cellEmpty }

// SetValue records a successful result. Panics if already written.
func (c *Cell[V]) SetValue(v V) {
	if c.state != cellEmpty {
		panic(errCellWriteTwice)
	}
	c.value = v
	c.state = cellValue
}

// SetFailure records a failed result. Panics if already written.
func (c *Cell[V]) SetFailure(err error) {
	if c.state != cellEmpty {
		panic(errCellWriteTwice)
	}
	if err == nil {
		panic("kontrol: SetFailure called with a nil error")
	}
	c.err = err
	c.state = cellFailure
}

// Take consumes the stored result. Panics if the cell is still empty.
func (c *Cell[V]) Take() (V, error) {
	switch c.state {
	case cellValue:
		return c.value, nil
	case cellFailure:
		var zero V
		return zero, c.err
	default:
		panic(errCellTakeEmpty)
	}
}
