// Package memdataset is a slice-backed implementation of the dataset
// plug-in contract (spec.md §6): every column is an in-memory Go slice of
// uniform element type, addressed by column name. It is the one built-in
// dataset the engine ships with, kept alongside the core both as a worked
// example of the plug-in contract and as the fixture most engine tests
// drive the per-row pass against.
package memdataset

import (
	"context"
	"fmt"
	"reflect"

	"github.com/colflow/colflow/internal/dataset"
	"github.com/colflow/colflow/internal/rangeset"
)

// Dataset holds one or more named columns, each a slice of a single
// element type (e.g. []int64, []float64, []string). All columns must have
// the same length; that length is the dataset's entry count.
type Dataset struct {
	columns   map[string]any
	length    int64
	normalize float64
}

// New builds a Dataset from named columns. It panics if the columns
// disagree on length or if any value is not a slice — both are
// programmer errors in test/example setup, not run-time conditions.
func New(columns map[string]any) *Dataset {
	d := &Dataset{columns: columns, normalize: 1.0}
	length := int64(-1)
	for name, col := range columns {
		v := reflect.ValueOf(col)
		if v.Kind() != reflect.Slice {
			panic(fmt.Sprintf("memdataset: column %q is not a slice: %T", name, col))
		}
		if length == -1 {
			length = int64(v.Len())
		} else if int64(v.Len()) != length {
			panic(fmt.Sprintf("memdataset: column %q has length %d, want %d", name, v.Len(), length))
		}
	}
	if length == -1 {
		length = 0
	}
	d.length = length
	return d
}

// WithNormalize sets the scalar Normalize() reports (spec.md §6).
func (d *Dataset) WithNormalize(n float64) *Dataset {
	d.normalize = n
	return d
}

// Normalize implements dataset.Normalizer.
func (d *Dataset) Normalize() float64 { return d.normalize }

// Allocate returns a single non-fixed range covering every row; the
// dataflow frontend re-partitions it across its configured slot count
// (spec.md §4.1).
func (d *Dataset) Allocate(context.Context) (rangeset.Partition, error) {
	if d.length == 0 {
		return rangeset.Partition{}, nil
	}
	return rangeset.Partition{Ranges: []rangeset.Range{{Begin: 0, End: d.length, Slot: 0}}}, nil
}

// Open returns a reader scoped to rng. Concurrent Opens over disjoint
// ranges are independent: each gets its own cell set (spec.md §5 "Shared
// resource policy").
func (d *Dataset) Open(_ context.Context, rng rangeset.Range) (dataset.Reader, error) {
	return &reader{ds: d, rng: rng, cells: make(map[string]reflect.Value)}, nil
}
