package dataflow

import (
	"context"
	"fmt"

	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/column"
	"github.com/colflow/colflow/internal/concurrent"
	"github.com/colflow/colflow/internal/query"
)

// TodoQuery is a deferred query factory (spec.md §3 "Booker[Q]", §4.7
// "todo<booker>"): a query constructor plus recorded fill tuples, not yet
// bound to any selection.
type TodoQuery[R any, Q query.Query[R]] struct {
	df       *Dataflow
	newQuery func() Q
	fillArgs [][]columnArg

	// variedFillArgs holds fill tuples bound via FillVaried: tuples whose
	// argument, per universe, must resolve to that universe's column
	// rather than always the nominal one (spec.md §4.8 scenario 5 "query
	// = sum of x" where x itself is varied).
	variedFillArgs [][]variedColumnArg

	raw   bool
	scale float64
}

// Make returns a TodoQuery[R, Q] constructed by newQuery (spec.md §4.7
// "make(query_plan) -> todo<booker>").
func Make[R any, Q query.Query[R]](df *Dataflow, newQuery func() Q) TodoQuery[R, Q] {
	return TodoQuery[R, Q]{df: df, newQuery: newQuery, scale: 1.0}
}

// Fill appends a fill-argument tuple (spec.md §4.5 "Booking"). Returns a
// new TodoQuery value; callers chain or reassign, matching query.Booker's
// own Fill semantics.
func (t TodoQuery[R, Q]) Fill(cols ...columnArg) TodoQuery[R, Q] {
	next := make([][]columnArg, len(t.fillArgs), len(t.fillArgs)+1)
	copy(next, t.fillArgs)
	t.fillArgs = append(next, cols)
	return t
}

// FillVaried appends a fill-argument tuple whose members may themselves be
// varied (spec.md §4.8): when booked via BookVaried, each universe's
// query is filled from that universe's value of each tuple member,
// falling back to the member's nominal value where it has no variation.
func (t TodoQuery[R, Q]) FillVaried(cols ...variedColumnArg) TodoQuery[R, Q] {
	next := make([][]variedColumnArg, len(t.variedFillArgs), len(t.variedFillArgs)+1)
	copy(next, t.variedFillArgs)
	t.variedFillArgs = append(next, cols)
	return t
}

// Raw disables weighting for every query this TodoQuery books (spec.md §3
// "Query", §4.5).
func (t TodoQuery[R, Q]) Raw() TodoQuery[R, Q] {
	t.raw = true
	return t
}

// Scale multiplies this TodoQuery's queries' weight by s.
func (t TodoQuery[R, Q]) Scale(s float64) TodoQuery[R, Q] {
	t.scale *= s
	return t
}

// LazyQuery is a handle over an already-instantiated concurrent query
// (spec.md §4.7 "lazy<T>" specialized to the query kind). Result triggers
// the single run on first access and is idempotent thereafter (spec.md
// §4.5 "Result and reduction").
type LazyQuery[R any] struct {
	df  *Dataflow
	idx int
}

// Book instantiates a query bound to sel (spec.md §4.5 "Booking"), using
// normalize as the per-query normalization scalar (typically the
// dataflow's own Normalize(), but callers may override).
func (t TodoQuery[R, Q]) Book(sel LazySelection, normalize float64) LazyQuery[R] {
	return t.bookIn(sel, normalize, "")
}

// bookIn is Book parametrized by variation universe (spec.md §4.8): ""
// resolves every FillVaried tuple to its nominal member; any other value
// resolves each to that universe's member, falling back to nominal.
func (t TodoQuery[R, Q]) bookIn(sel LazySelection, normalize float64, universe string) LazyQuery[R] {
	idx := t.df.addNode(func(rt *slotRuntime) (action.Action, error) {
		parent := sel.resolve(rt)
		if parent == nil {
			return nil, fmt.Errorf("query: cannot book against an unresolved selection")
		}
		booker := query.NewBooker[R, Q](t.newQuery)
		if t.raw {
			booker = booker.Raw()
		}
		booker = booker.Scale(t.scale)
		for _, tuple := range t.fillArgs {
			obs := make([]column.Observable, len(tuple))
			for i, c := range tuple {
				obs[i] = c.observable(rt)
			}
			booker = booker.Fill(obs...)
		}
		for _, tuple := range t.variedFillArgs {
			obs := make([]column.Observable, len(tuple))
			for i, c := range tuple {
				arg := c.nominalArg()
				if universe != "" {
					arg = c.variationArg(universe)
				}
				obs[i] = arg.observable(rt)
			}
			booker = booker.Fill(obs...)
		}
		return booker.Book(parent, normalize)
	})
	t.df.invalidate()
	return LazyQuery[R]{df: t.df, idx: idx}
}

// BookAll books one query per selection, sharing this TodoQuery's
// constructor, fill columns and scale (spec.md §4.5 "Multiple selections
// from one booker").
func (t TodoQuery[R, Q]) BookAll(normalize float64, sels ...LazySelection) []LazyQuery[R] {
	out := make([]LazyQuery[R], 0, len(sels))
	for _, s := range sels {
		out = append(out, t.Book(s, normalize))
	}
	return out
}

// Result runs the dataflow if needed, merges the per-slot partial states
// via the query's own Merge (slot 0 is the model), and caches the merged
// value for subsequent calls (spec.md §4.5, §8 "Idempotent results").
func (l LazyQuery[R]) Result(ctx context.Context) (R, error) {
	if err := l.df.Run(ctx); err != nil {
		var zero R
		return zero, err
	}

	l.df.mu.Lock()
	defer l.df.mu.Unlock()
	if cached, ok := l.df.mergedCache[l.idx]; ok {
		return cached.(R), nil
	}

	instances := make(concurrent.Concurrent[*query.Instance[R]], l.df.activeWidth)
	for slot := range instances {
		instances[slot] = l.df.slotResults[slot][l.idx].(*query.Instance[R])
	}
	perSlot, err := concurrent.Invoke(instances, func(inst *query.Instance[R], _ int) (R, error) {
		return inst.GetResult(), nil
	})
	if err != nil {
		var zero R
		return zero, err
	}

	merged := instances.Model().Query().Merge(perSlot)
	l.df.mergedCache[l.idx] = merged
	return merged, nil
}
