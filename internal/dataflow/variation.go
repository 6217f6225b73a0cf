// This file specializes internal/variation's generic Varied[T] wrapper for
// the three lazy node kinds the frontend exposes — columns, selections,
// queries — and implements spec.md §4.8's composition rule: a varied
// result's variation(v) is built by re-running the same builder over each
// argument's variation(v) (falling back to nominal where an argument lacks
// v), for every v in the union of variation names across the arguments.
package dataflow

import (
	"context"

	"github.com/colflow/colflow/internal/column"
	"github.com/colflow/colflow/internal/variation"
)

// variedColumnArg is satisfied by any VariedColumn[T], for any T: the
// argument type every variation-aware builder (CallVaried, FillVaried)
// accepts.
type variedColumnArg interface {
	variation.Named
	nominalArg() columnArg
	variationArg(name string) columnArg
}

// VariedColumn is dataflow's specialization of variation.Varied for lazy
// columns (spec.md §3 "Variation universe", §4.8).
type VariedColumn[T any] struct {
	variation.Varied[LazyColumn[T]]
}

func (v VariedColumn[T]) nominalArg() columnArg {
	return v.Nominal()
}

func (v VariedColumn[T]) variationArg(name string) columnArg {
	return v.Variation(name)
}

// NoVariation lifts a plain LazyColumn[T] into a nominal-only
// VariedColumn[T], so it can be passed alongside genuinely varied
// arguments to CallVaried/FillVaried.
func NoVariation[T any](c LazyColumn[T]) VariedColumn[T] {
	return VariedColumn[T]{Varied: variation.Of(c)}
}

// VaryColumn attaches alt under name to nominal, keeping nominal as the
// default for every other universe (spec.md §4.8 "vary(name, args…)
// attached to a reader/constant/definition builder constructs an
// alternative node under name while keeping the original as nominal").
func VaryColumn[T any](nominal LazyColumn[T], name string, alt LazyColumn[T]) (VariedColumn[T], error) {
	v, err := variation.Of(nominal).With(name, alt)
	return VariedColumn[T]{Varied: v}, err
}

func namedArgs(cols []variedColumnArg) []variation.Named {
	out := make([]variation.Named, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}

func nominalColumnArgs(cols []variedColumnArg) []columnArg {
	out := make([]columnArg, len(cols))
	for i, c := range cols {
		out[i] = c.nominalArg()
	}
	return out
}

func universeColumnArgs(cols []variedColumnArg, universe string) []columnArg {
	out := make([]columnArg, len(cols))
	for i, c := range cols {
		out[i] = c.variationArg(universe)
	}
	return out
}

// CallVaried is Call lifted to varied arguments (spec.md §4.8): the
// nominal result binds fn to every argument's nominal; for each name in
// the union of the arguments' variation names, that universe's result
// binds fn to each argument's Variation(name), falling back to its
// nominal where it lacks that name.
func (t TodoColumn[T]) CallVaried(cols ...variedColumnArg) (VariedColumn[T], error) {
	nom, err := t.Call(nominalColumnArgs(cols)...)
	if err != nil {
		return VariedColumn[T]{}, err
	}

	result := VariedColumn[T]{Varied: variation.Of(nom)}
	for _, name := range variation.Union(namedArgs(cols)...) {
		varied, err := t.callIn(universeColumnArgs(cols, name))
		if err != nil {
			return VariedColumn[T]{}, err
		}
		result.Varied, err = result.Varied.With(name, varied)
		if err != nil {
			return VariedColumn[T]{}, err
		}
	}
	return result, nil
}

// callIn binds fn to cols without re-validating arity/type, used by
// CallVaried once Call has already validated the nominal binding.
func (t TodoColumn[T]) callIn(cols []columnArg) (LazyColumn[T], error) {
	return addColumn(t.df, func(rt *slotRuntime) (column.Column[T], error) {
		obs := make([]column.Observable, len(cols))
		for i, c := range cols {
			obs[i] = c.observable(rt)
		}
		return column.Equation[T](t.fn, obs...)
	}), nil
}

// VariedSelection is dataflow's specialization of variation.Varied for
// lazy selections (spec.md §4.8).
type VariedSelection struct {
	variation.Varied[LazySelection]
}

// NoParentVaried is the varied counterpart of NoParent: a nominal-only
// "no parent" marker usable as the parent of a root-level varied filter.
var NoParentVaried = VariedSelection{Varied: variation.Of(NoParent)}

// NoVariationSelection lifts a plain LazySelection into a nominal-only
// VariedSelection, mirroring NoVariation for columns.
func NoVariationSelection(s LazySelection) VariedSelection {
	return VariedSelection{Varied: variation.Of(s)}
}

// FilterVaried, WeightVaried and ChannelVaried are Filter/Weight/Channel
// lifted to a possibly-varied parent and possibly-varied decision columns
// (spec.md §4.8, §4.4). Each behaves exactly like its nominal counterpart
// within every universe — including the nominal one — except that the
// union of variation names also includes any the parent itself carries.
func FilterVaried(df *Dataflow, parent VariedSelection, name string, fn any, cols ...variedColumnArg) (VariedSelection, error) {
	return varySelection(df, kindCut, parent, name, fn, cols)
}

func WeightVaried(df *Dataflow, parent VariedSelection, name string, fn any, cols ...variedColumnArg) (VariedSelection, error) {
	return varySelection(df, kindWeight, parent, name, fn, cols)
}

func ChannelVaried(df *Dataflow, parent VariedSelection, name string, fn any, cols ...variedColumnArg) (VariedSelection, error) {
	return varySelection(df, kindChannel, parent, name, fn, cols)
}

func varySelection(df *Dataflow, kind selectionKind, parent VariedSelection, name string, fn any, cols []variedColumnArg) (VariedSelection, error) {
	nomSel, err := (TodoSelection{df: df, kind: kind, parent: parent.Nominal(), name: name, fn: fn}).
		callIn("", nominalColumnArgs(cols))
	if err != nil {
		return VariedSelection{}, err
	}

	result := VariedSelection{Varied: variation.Of(nomSel)}
	for _, uname := range variation.Union(append(namedArgs(cols), parent)...) {
		t := TodoSelection{df: df, kind: kind, parent: parent.Variation(uname), name: name, fn: fn}
		varSel, err := t.callIn(uname, universeColumnArgs(cols, uname))
		if err != nil {
			return VariedSelection{}, err
		}
		result.Varied, err = result.Varied.With(uname, varSel)
		if err != nil {
			return VariedSelection{}, err
		}
	}
	return result, nil
}

// JoinVaried is Join lifted to possibly-varied selections (spec.md §4.4
// "Joining", §4.8; SPEC_FULL.md "selection.Join ... usable from both
// nominal and varied graphs").
func JoinVaried(a, b VariedSelection) VariedSelection {
	result := VariedSelection{Varied: variation.Of(Join(a.Nominal(), b.Nominal()))}
	for _, name := range variation.Union(a, b) {
		joined := Join(a.Variation(name), b.Variation(name))
		result.Varied, _ = result.Varied.With(name, joined)
	}
	return result
}

// VariedQuery is dataflow's specialization of variation.Varied for lazy
// queries (spec.md §4.8). Result yields a mapping name -> result,
// including "nominal" (spec.md §4.8 "Access").
type VariedQuery[R any] struct {
	variation.Varied[LazyQuery[R]]
}

// BookVaried is Book lifted to a possibly-varied selection and, via
// TodoQuery.FillVaried, possibly-varied fill columns (spec.md §4.8
// scenario 5).
func (t TodoQuery[R, Q]) BookVaried(sel VariedSelection, normalize float64) VariedQuery[R] {
	result := VariedQuery[R]{Varied: variation.Of(t.bookIn(sel.Nominal(), normalize, ""))}

	named := append([]variation.Named{sel}, flattenVariedFillArgs(t.variedFillArgs)...)
	for _, name := range variation.Union(named...) {
		v := t.bookIn(sel.Variation(name), normalize, name)
		result.Varied, _ = result.Varied.With(name, v)
	}
	return result
}

func flattenVariedFillArgs(tuples [][]variedColumnArg) []variation.Named {
	var out []variation.Named
	for _, tuple := range tuples {
		out = append(out, namedArgs(tuple)...)
	}
	return out
}

// Result runs the dataflow if needed and returns every universe's merged
// result keyed by name, "nominal" included (spec.md §4.8 "Access: result()
// on a varied query yields a mapping name -> result including 'nominal'").
func (v VariedQuery[R]) Result(ctx context.Context) (map[string]R, error) {
	out := make(map[string]R, 1+len(v.VariationNames()))
	nom, err := v.Nominal().Result(ctx)
	if err != nil {
		return nil, err
	}
	out["nominal"] = nom
	for _, name := range v.VariationNames() {
		r, err := v.Variation(name).Result(ctx)
		if err != nil {
			return nil, err
		}
		out[name] = r
	}
	return out, nil
}
