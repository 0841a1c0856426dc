// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import "testing"

func TestCellValue(t *testing.T) {
	var c Cell[int]
	if !c.IsEmpty() {
		t.Fatal("new cell should be empty")
	}
	c.SetValue(42)
	if c.IsEmpty() {
		t.Fatal("cell should not be empty after SetValue")
	}
	v, err := c.Take()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestCellFailure(t *testing.T) {
	var c Cell[string]
	boom := errCellWriteTwice
	c.SetFailure(boom)
	v, err := c.Take()
	if v != "" {
		t.Fatalf("expected zero value, got %q", v)
	}
	if err != boom {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestCellSetTwicePanics(t *testing.T) {
	var c Cell[int]
	c.SetValue(1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second write")
		}
	}()
	c.SetValue(2)
}

func TestCellTakeEmptyPanics(t *testing.T) {
	var c Cell[int]
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on take of empty cell")
		}
	}()
	c.Take()
}

func TestCellReferenceSemantics(t *testing.T) {
	var c Cell[*int]
	n := 7
	c.SetValue(&n)
	v, err := c.Take()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != &n {
		t.Fatal("expected the same pointer to be stored and returned")
	}
}
