package column

import (
	"fmt"

	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/dataset"
	"github.com/colflow/colflow/internal/rangeset"
)

// Reader is a Column[T] whose value is sourced from the dataset at the
// current row (spec.md §3 "Reader[T]", §4.3 "Reader addresses"). It holds a
// pointer into the dataset-provided storage location; the dataset is
// responsible for updating that storage before Reader.Next returns.
type Reader[T any] struct {
	action.Base
	cell *T
}

// NewReader binds a Reader[T] to the storage address exposed by src. It
// fails at construction if src's Address() is not a *T — the exact-type
// check of spec.md §4.3's conversion-compatibility rule (non-exact,
// convertible types go through Convert instead).
func NewReader[T any](src dataset.ColumnSource) (*Reader[T], error) {
	cell, ok := src.Address().(*T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("column: reader storage type mismatch: want *%T, got %T", zero, src.Address())
	}
	return &Reader[T]{cell: cell}, nil
}

// Execute is a no-op: the dataset's Reader.Next already updated the
// backing storage for this row before any action executes.
func (r *Reader[T]) Execute(rangeset.Range, int64) error { return nil }

// Value returns the current row's value.
func (r *Reader[T]) Value() T { return *r.cell }
