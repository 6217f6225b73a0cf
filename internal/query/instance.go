package query

import (
	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/column"
	"github.com/colflow/colflow/internal/rangeset"
	"github.com/colflow/colflow/internal/selection"
)

// Instance is a query bound to a selection: the per-slot action that
// implements the per-row fill/count protocol of spec.md §4.5.
type Instance[R any] struct {
	action.Base

	q         Query[R]
	sel       *selection.Selection
	fillArgs  [][]column.Observable
	raw       bool
	scale     float64
	normalize float64
}

// Execute implements spec.md §4.5 "Per-row semantics":
//  1. if the selection does not pass, do nothing;
//  2. else compute the weight (1.0 if raw), times this instance's scale
//     and the dataset's normalization;
//  3. a fillable query's FillValues hook is called once per registered
//     fill tuple, reading each tuple's bound observables; the hook decides
//     whether to call Count;
//  4. otherwise Count(w) is called directly.
func (in *Instance[R]) Execute(rangeset.Range, int64) error {
	if !in.sel.PassedCut() {
		return nil
	}

	w := in.sel.GetWeight()
	if in.raw {
		w = 1.0
	}
	w *= in.scale * in.normalize

	filler, isFillable := in.q.(Fillable)
	if !isFillable {
		in.q.Count(w)
		return nil
	}

	if len(in.fillArgs) == 0 {
		filler.FillValues(nil, w)
		return nil
	}
	for _, tuple := range in.fillArgs {
		values := make([]any, len(tuple))
		for i, obs := range tuple {
			values[i] = obs.Any()
		}
		filler.FillValues(values, w)
	}
	return nil
}

// GetResult returns the bound query's per-slot partial result.
func (in *Instance[R]) GetResult() R { return in.q.GetResult() }

// Query returns the underlying user query, used by the reduction step to
// call Merge on the slot-0 instance (spec.md §4.5 "slot 0 is taken as the
// model and folds in the rest").
func (in *Instance[R]) Query() Query[R] { return in.q }

// Selection returns the selection this instance is bound to.
func (in *Instance[R]) Selection() *selection.Selection { return in.sel }
