package column

import (
	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/rangeset"
)

// Calculator is the user-supplied contract for a custom Definition[T]
// (spec.md §6 "Column definition contract"): an argument list fixed once at
// construction via SetArguments, and a pure per-row Calculate().
type Calculator[T any] interface {
	SetArguments(args []Observable)
	Calculate() T
}

// Definition is a Column[T] whose value is computed from other columns,
// recomputed on demand and cached per row (spec.md §3 "Definition[T]",
// §4.3 "Value caching"). Value() calls Calculate() lazily on first access
// per row, then returns the cached value; Execute resets the cache so the
// next row recomputes on first access. This yields at-most-one evaluation
// per row regardless of how many downstream consumers read the value.
type Definition[T any] struct {
	action.Base
	calc    Calculator[T]
	args    []Observable
	value   T
	updated bool
}

// NewDefinition binds calc to args and wraps it with the lazy per-row cache.
func NewDefinition[T any](calc Calculator[T], args ...Observable) *Definition[T] {
	calc.SetArguments(args)
	return &Definition[T]{calc: calc, args: args}
}

// Execute invalidates the cached value; the next Value() call recomputes it.
func (d *Definition[T]) Execute(rangeset.Range, int64) error {
	d.updated = false
	return nil
}

// Value returns this row's value, computing it via Calculate() on first
// access and caching it for the remainder of the row.
func (d *Definition[T]) Value() T {
	if !d.updated {
		d.value = d.calc.Calculate()
		d.updated = true
	}
	return d.value
}
