package column

import (
	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/rangeset"
)

// Constant is a Column[T] whose value is fixed at construction (spec.md §3
// "Constant[T]").
type Constant[T any] struct {
	action.Base
	val T
}

// NewConstant returns a Column[T] that always yields v.
func NewConstant[T any](v T) *Constant[T] { return &Constant[T]{val: v} }

func (c *Constant[T]) Execute(rangeset.Range, int64) error { return nil }
func (c *Constant[T]) Value() T                            { return c.val }
