package registry

import (
	"context"

	"github.com/colflow/colflow/internal/dataflow"
)

// Query is the type-erased handle a QueryBuilder hands back: a booked
// query whose result type R has been hidden behind any, so planconfig and
// the CLI can hold a plan's queries in one uniform slice regardless of
// each one's concrete result type. Erase adapts a dataflow.LazyQuery[R]
// into one.
type Query interface {
	Result(ctx context.Context) (any, error)
}

type erasedQuery[R any] struct{ q dataflow.LazyQuery[R] }

func (e erasedQuery[R]) Result(ctx context.Context) (any, error) {
	return e.q.Result(ctx)
}

// Erase hides q's result type behind the Query interface.
func Erase[R any](q dataflow.LazyQuery[R]) Query {
	return erasedQuery[R]{q: q}
}

// ColumnBuilder constructs one named kind of float64 column (spec.md §3
// "Reader[T]"/"Constant[T]"/definitions, restricted to float64 on the
// declarative surface — see SPEC_FULL.md "Configuration"). NewArgs
// returns a fresh, zero-valued arguments value for the plan decoder to
// populate from the block's `arguments`; Build realizes the column
// against df from those arguments and this column's already-built
// dependencies, keyed by the name the plan referenced them under.
type ColumnBuilder struct {
	NewArgs func() any
	Build   func(df *dataflow.Dataflow, args any, deps map[string]dataflow.LazyColumn[float64]) (dataflow.LazyColumn[float64], error)
}

// SelectionBuilder constructs one named kind of selection (spec.md §4.4).
// parent is NoParent for a root-level selection.
type SelectionBuilder struct {
	NewArgs func() any
	Build   func(df *dataflow.Dataflow, parent dataflow.LazySelection, name string, args any, deps map[string]dataflow.LazyColumn[float64]) (dataflow.LazySelection, error)
}

// QueryBuilder constructs one named kind of query (spec.md §4.5). fill is
// nil for a query kind that takes no fill column (e.g. a row counter).
type QueryBuilder struct {
	NewArgs func() any
	Build   func(df *dataflow.Dataflow, sel dataflow.LazySelection, args any, fill *dataflow.LazyColumn[float64]) (Query, error)
}

// Registry holds every column/selection/query kind a plan may reference,
// keyed by the string name plan blocks use for `kind`.
type Registry struct {
	Columns    map[string]ColumnBuilder
	Selections map[string]SelectionBuilder
	Queries    map[string]QueryBuilder
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		Columns:    make(map[string]ColumnBuilder),
		Selections: make(map[string]SelectionBuilder),
		Queries:    make(map[string]QueryBuilder),
	}
}
