package dataflow

import (
	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/column"
)

// columnArg is the argument type every column-combining builder accepts:
// anything that can resolve to a per-slot Observable once a slot's runtime
// exists (spec.md §4.7 "call syntax builder(cols…)"). It is satisfied only
// by LazyColumn[T], for any T, defined in this package.
type columnArg interface {
	observable(rt *slotRuntime) column.Observable
}

// LazyColumn is a handle over an already-instantiated concurrent column
// (spec.md §4.7 "lazy<T>"). It carries no per-slot instance itself before
// the first Run — only a reference to the node builder that will produce
// one — so it can be passed as an argument to further builders regardless
// of whether the dataflow has executed yet.
type LazyColumn[T any] struct {
	df  *Dataflow
	idx int
}

func (l LazyColumn[T]) observable(rt *slotRuntime) column.Observable {
	return column.Of[T](rt.at(l.idx).(column.Column[T]))
}

// valueAt returns this column's realized value at slot for the row last
// executed there; only meaningful after Run.
func (l LazyColumn[T]) valueAt(slot int) T {
	return l.df.slotResults[slot][l.idx].(column.Column[T]).Value()
}

func addColumn[T any](df *Dataflow, build func(rt *slotRuntime) (column.Column[T], error)) LazyColumn[T] {
	idx := df.addNode(func(rt *slotRuntime) (action.Action, error) {
		return build(rt)
	})
	return LazyColumn[T]{df: df, idx: idx}
}

// Const returns a column fixed at construction (spec.md §3 "Constant[T]").
func Const[T any](df *Dataflow, value T) LazyColumn[T] {
	return addColumn(df, func(*slotRuntime) (column.Column[T], error) {
		return column.NewConstant(value), nil
	})
}

// Read returns a column sourced from the dataset's named field (spec.md §3
// "Reader[T]"). The dataset's storage type for name must be exactly *T;
// mismatches surface as an error from the first Run.
func Read[T any](df *Dataflow, name string) LazyColumn[T] {
	return addColumn(df, func(rt *slotRuntime) (column.Column[T], error) {
		src, err := rt.reader.ReadColumn(rt.rng, name)
		if err != nil {
			return nil, err
		}
		return column.NewReader[T](src)
	})
}

// TodoColumn is a deferred column evaluator (spec.md §4.7 "todo<evaluator>"):
// a pure function not yet bound to argument columns. Call binds it.
type TodoColumn[T any] struct {
	df *Dataflow
	fn any
}

// Define returns a TodoColumn[T] wrapping fn. fn's arity and return type
// are checked against the arguments given to Call, but not before — Define
// itself never fails.
func Define[T any](df *Dataflow, fn any) TodoColumn[T] {
	return TodoColumn[T]{df: df, fn: fn}
}

// Call binds fn to cols, each supplying one positional argument, and
// returns the resulting lazy equation column (spec.md §4.3 "Equations").
// Arity/type mismatches are reported synchronously (spec.md §7.1).
func (t TodoColumn[T]) Call(cols ...columnArg) (LazyColumn[T], error) {
	if _, err := column.ValidateEquation[T](t.fn, len(cols)); err != nil {
		return LazyColumn[T]{}, err
	}
	return addColumn(t.df, func(rt *slotRuntime) (column.Column[T], error) {
		obs := make([]column.Observable, len(cols))
		for i, c := range cols {
			obs[i] = c.observable(rt)
		}
		return column.Equation[T](t.fn, obs...)
	}), nil
}

// Represent combines cols into a single tuple-valued column (spec.md §3
// "Representation").
func Represent(df *Dataflow, cols ...columnArg) LazyColumn[[]any] {
	return addColumn(df, func(rt *slotRuntime) (column.Column[[]any], error) {
		obs := make([]column.Observable, len(cols))
		for i, c := range cols {
			obs[i] = c.observable(rt)
		}
		return column.Representation(obs...), nil
	})
}

// ConvertColumn adapts src's value type via an explicit conversion
// function (spec.md §4.3 "implicit numeric conversion" made explicit for
// Go — see column.Convert).
func ConvertColumn[From, To any](src LazyColumn[From], conv func(From) To) LazyColumn[To] {
	return addColumn(src.df, func(rt *slotRuntime) (column.Column[To], error) {
		from := rt.at(src.idx).(column.Column[From])
		return column.Convert[From, To](from, conv), nil
	})
}
