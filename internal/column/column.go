// Package column implements the column graph (spec.md §3, §4.3): per-row
// value-producing nodes (readers, constants, definitions, equations,
// representations), their uniform type-erased "observable" view, and the
// lazy per-row value cache that gives every definition at-most-one
// evaluation per row regardless of fan-out.
package column

import (
	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/rangeset"
)

// Column is a typed action producing a value of type T for the current row
// (spec.md §3 "Column[T]"). Within a single Execute(entry) pass, repeated
// calls to Value() return the same result no matter how many times it is
// queried.
type Column[T any] interface {
	action.Action
	Value() T
}

// Observable is the uniform, type-erased view over a Column[T] (spec.md
// §4.3 "Type erasure at the interface"). It lets heterogeneous argument
// columns be collected into a single slice, as required by Equation and
// Representation, without the graph-bookkeeping layer needing to know each
// argument's concrete value type.
type Observable interface {
	action.Action
	// Any returns the column's current-row value boxed as any.
	Any() any
}

// Of adapts a Column[T] into an Observable. This is the construction-time
// wrapper spec.md §4.3 describes as "identity" (no value transform, just
// type erasure); see Convert for the numeric-conversion wrapper.
func Of[T any](c Column[T]) Observable {
	return observableAdapter[T]{c}
}

type observableAdapter[T any] struct{ col Column[T] }

func (o observableAdapter[T]) Initialize(rng rangeset.Range) error { return o.col.Initialize(rng) }
func (o observableAdapter[T]) Execute(rng rangeset.Range, entry int64) error {
	return o.col.Execute(rng, entry)
}
func (o observableAdapter[T]) Finalize(rng rangeset.Range) error { return o.col.Finalize(rng) }
func (o observableAdapter[T]) Any() any                          { return o.col.Value() }
