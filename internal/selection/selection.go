// Package selection implements the selection cutflow (spec.md §3, §4.4): a
// tree of cut/weight nodes with a composed per-row decision and weight,
// organized by channel path.
package selection

import (
	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/rangeset"
)

// Selection is an action representing a predicate-and-weight at a point in
// the cutflow tree (spec.md §3). Reading PassedCut or GetWeight twice in
// the same row re-reads the same cached decision (spec.md §4.4).
type Selection struct {
	action.Base

	name      string
	parent    *Selection
	isChannel bool
	path      string
	fullPath  string

	// compute derives (passedCut, weight) for the current row from the
	// parent's cached decision plus this selection's own decision column.
	// It is a closure rather than a kind tag so that Cut, Weight and Join
	// share one Selection type with three composition strategies.
	compute func() (bool, float64)

	pass    bool
	weight  float64
	updated bool
}

// Name returns the selection's own name, without ancestry.
func (s *Selection) Name() string { return s.name }

// Parent returns the selection's parent, or nil if it is an initial
// selection (root of a branch).
func (s *Selection) Parent() *Selection { return s.parent }

// IsChannel reports whether this selection was created as a channel.
func (s *Selection) IsChannel() bool { return s.isChannel }

// Path is the slash-joined sequence of channel ancestor names plus this
// selection's own name (spec.md §3 "Selection path").
func (s *Selection) Path() string { return s.path }

// FullPath joins all ancestor names, regardless of channel flag.
func (s *Selection) FullPath() string { return s.fullPath }

// Execute invalidates the cached decision; the next PassedCut/GetWeight
// call recomputes it from the (already-executed) parent and decision
// column.
func (s *Selection) Execute(rangeset.Range, int64) error {
	s.updated = false
	return nil
}

func (s *Selection) ensure() {
	if !s.updated {
		s.pass, s.weight = s.compute()
		s.updated = true
	}
}

// PassedCut reports whether the current row passes this selection and all
// of its ancestors.
func (s *Selection) PassedCut() bool {
	s.ensure()
	return s.pass
}

// GetWeight returns the current row's composed weight at this selection.
func (s *Selection) GetWeight() float64 {
	s.ensure()
	return s.weight
}

