// Package action defines the common contract shared by every node that
// participates in the per-row pass: columns, selections and queries
// (spec.md §3 "Action"). It is intentionally tiny and non-generic so that a
// slot can hold a single, dependency-ordered list of heterogeneous nodes
// without needing runtime type parameters at the graph-bookkeeping level.
package action

import "github.com/colflow/colflow/internal/rangeset"

// Action is the base of any node hosted by a slot. Initialize is called
// once before row iteration begins, Execute once per row, and Finalize once
// after iteration ends. An action has no ownership of other actions; its
// lifetime is exactly the lifetime of the slot that hosts it.
type Action interface {
	// Initialize prepares the action for the given range, before any row in
	// it has been visited.
	Initialize(rng rangeset.Range) error

	// Execute updates the action's per-row state for entry, which lies
	// within rng. Actions are called in dependency order: a column before
	// any dependent, a selection before its children, a query after its
	// bound selection (spec.md §4.2).
	Execute(rng rangeset.Range, entry int64) error

	// Finalize runs once after the last row of rng has been visited.
	Finalize(rng rangeset.Range) error
}

// Base provides no-op Initialize/Finalize so that simple actions (most
// columns, most selections) only need to implement Execute.
type Base struct{}

func (Base) Initialize(rangeset.Range) error { return nil }
func (Base) Finalize(rangeset.Range) error   { return nil }
