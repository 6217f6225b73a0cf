package dataflow

import (
	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/column"
	"github.com/colflow/colflow/internal/selection"
)

// LazySelection is a handle over an already-instantiated concurrent
// selection (spec.md §4.7 "lazy<T>" specialized to the selection kind).
type LazySelection struct {
	df       *Dataflow
	idx      int
	shapeSel *selection.Selection // construction-time-only, for Path/FullPath
}

// NoParent starts a new initial branch of the cutflow (spec.md §3
// "parent selection (possibly none -> initial)").
var NoParent = LazySelection{idx: -1}

// Path returns the channel-joined path computed at construction time.
func (l LazySelection) Path() string { return l.shapeSel.Path() }

// FullPath returns the ancestor-joined full path computed at construction
// time; this is the key Booker and Lookup index by.
func (l LazySelection) FullPath() string { return l.shapeSel.FullPath() }

func (l LazySelection) resolve(rt *slotRuntime) *selection.Selection {
	if l.idx < 0 {
		return nil
	}
	return rt.at(l.idx).(*selection.Selection)
}

type selectionKind int

const (
	kindCut selectionKind = iota
	kindWeight
	kindChannel
)

// TodoSelection is a deferred selection applicator (spec.md §4.7
// "todo<applicator>"): a decision function not yet bound to argument
// columns. Call binds it and inserts the new selection under parent.
type TodoSelection struct {
	df     *Dataflow
	kind   selectionKind
	parent LazySelection
	name   string
	fn     any
}

// Filter returns a TodoSelection for a Cut child of parent (spec.md §4.4).
func Filter(df *Dataflow, parent LazySelection, name string, fn any) TodoSelection {
	return TodoSelection{df: df, kind: kindCut, parent: parent, name: name, fn: fn}
}

// Weight returns a TodoSelection for a Weight child of parent (spec.md §4.4).
func Weight(df *Dataflow, parent LazySelection, name string, fn any) TodoSelection {
	return TodoSelection{df: df, kind: kindWeight, parent: parent, name: name, fn: fn}
}

// Channel returns a TodoSelection for a channel-marked Cut child of parent
// (spec.md §4.4 "channel(name, …) is identical to filter... but marks the
// node as a channel").
func Channel(df *Dataflow, parent LazySelection, name string, fn any) TodoSelection {
	return TodoSelection{df: df, kind: kindChannel, parent: parent, name: name, fn: fn}
}

// Call binds fn to cols and inserts the resulting selection into the
// nominal cutflow. Duplicate names under the same parent, or a duplicate
// full path, are construction errors reported synchronously (spec.md
// §4.4, §7.1) — checked immediately against a construction-time shape
// tree that mirrors the real per-slot cutflow without needing any row
// data.
func (t TodoSelection) Call(cols ...columnArg) (LazySelection, error) {
	return t.callIn("", cols)
}

// callIn is Call parametrized by variation universe (spec.md §4.8 "each
// universe has its own ... selection ... replicas"): "" is the nominal
// tree every non-varied caller uses; any other value inserts into that
// universe's own, independently-namespaced cutflow tree instead.
func (t TodoSelection) callIn(universe string, cols []columnArg) (LazySelection, error) {
	if _, err := column.ValidateEquation[float64](t.fn, len(cols)); err != nil {
		return LazySelection{}, err
	}

	shapeCutflow, pathToIdx := t.df.shapeFor(universe)
	shapeDecision := column.NewConstant(0.0)
	shapeSel, err := t.addShape(shapeDecision, shapeCutflow)
	if err != nil {
		return LazySelection{}, err
	}

	decision := addColumn(t.df, func(rt *slotRuntime) (column.Column[float64], error) {
		obs := make([]column.Observable, len(cols))
		for i, c := range cols {
			obs[i] = c.observable(rt)
		}
		return column.Equation[float64](t.fn, obs...)
	})

	idx := t.df.addNode(func(rt *slotRuntime) (action.Action, error) {
		dec := rt.at(decision.idx).(column.Column[float64])
		parent := t.parent.resolve(rt)
		return t.add(rt.cutflowFor(universe), parent, dec)
	})

	pathToIdx[shapeSel.FullPath()] = idx
	return LazySelection{df: t.df, idx: idx, shapeSel: shapeSel}, nil
}

func (t TodoSelection) addShape(decision column.Column[float64], shapeCutflow *selection.Cutflow) (*selection.Selection, error) {
	var parent *selection.Selection
	if t.parent.idx >= 0 {
		parent = t.parent.shapeSel
	}
	return t.add(shapeCutflow, parent, decision)
}

func (t TodoSelection) add(cf *selection.Cutflow, parent *selection.Selection, decision column.Column[float64]) (*selection.Selection, error) {
	switch t.kind {
	case kindWeight:
		return cf.Weight(parent, t.name, decision)
	case kindChannel:
		return cf.Channel(parent, t.name, decision)
	default:
		return cf.Filter(parent, t.name, decision)
	}
}

// Join produces a lazy AND-conjunction of a and b (spec.md §4.4
// "Joining"), not inserted into either cutflow tree.
func Join(a, b LazySelection) LazySelection {
	df := a.df
	idx := df.addNode(func(rt *slotRuntime) (action.Action, error) {
		return selection.Join(a.resolve(rt), b.resolve(rt)), nil
	})
	return LazySelection{df: df, idx: idx, shapeSel: selection.Join(a.shapeSel, b.shapeSel)}
}

// Lookup finds a previously built selection by full path (spec.md §4.4 "A
// request analysis[path] looks up by full path and fails if absent").
func (df *Dataflow) Lookup(fullPath string) (LazySelection, error) {
	shapeSel, err := df.shapeCutflow.Get(fullPath)
	if err != nil {
		return LazySelection{}, err
	}
	idx, ok := df.pathToIdx[fullPath]
	if !ok {
		return LazySelection{}, selection.ErrNotFound
	}
	return LazySelection{df: df, idx: idx, shapeSel: shapeSel}, nil
}
