// Package dataset defines the dataset plug-in contract (spec.md §6) and the
// per-slot reader/player that drives the row-by-row pass (spec.md §4.2).
//
// A concrete dataset — an in-memory slice, a file format, a remote store —
// satisfies Dataset and Reader. The engine never depends on a concrete
// format; internal/memdataset is the one built-in implementation, kept
// alongside the core as a worked example and a vehicle for engine tests.
package dataset

import (
	"context"

	"github.com/colflow/colflow/internal/rangeset"
)

// Dataset is the plug-in contract a dataset must satisfy (spec.md §6).
type Dataset interface {
	// Allocate returns the dataset's initial partition. A partition marked
	// Fixed is taken as-is; Truncate/Merge become no-ops on it.
	Allocate(ctx context.Context) (rangeset.Partition, error)

	// Open returns a reader scoped to rng. The dataset must tolerate being
	// asked to Open multiple concurrent, disjoint ranges (spec.md §5).
	Open(ctx context.Context, rng rangeset.Range) (Reader, error)
}

// Lifecycle is an optional dataset capability for start/finish hooks run
// once per overall run, before the first Open and after the last Reader's
// End (spec.md §5 "Resource lifetimes"). A dataset that does not implement
// Lifecycle is treated as having no-op hooks.
type Lifecycle interface {
	StartDataset(ctx context.Context) error
	FinishDataset(ctx context.Context) error
}

// Normalizer is an optional dataset capability exposing a scalar applied to
// every query's weight on book (spec.md §6), defaulting to 1 when absent.
type Normalizer interface {
	Normalize() float64
}

// ColumnSource is the handle a Reader hands back for a named column: a
// pointer into the reader's per-row storage for that column. The pointer's
// concrete type (e.g. *float64, *string) is the column's value type; the
// column package type-asserts it when constructing a typed reader column
// (spec.md §4.3 "Reader addresses").
type ColumnSource interface {
	Address() any
}

// Reader is the per-range iteration contract a dataset's Open must return
// (spec.md §6). Begin/Next/End bracket row iteration; Next must update the
// storage backing every ColumnSource obtained from ReadColumn before it
// returns true.
type Reader interface {
	Begin(ctx context.Context) error

	// Next advances to the next row and reports whether one was available.
	Next(ctx context.Context) (bool, error)

	End(ctx context.Context) error

	// ReadColumn returns a ColumnSource bound to this reader's storage for
	// the named column, scoped to rng.
	ReadColumn(rng rangeset.Range, name string) (ColumnSource, error)
}
