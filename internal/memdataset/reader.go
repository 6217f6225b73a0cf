package memdataset

import (
	"context"
	"fmt"
	"reflect"

	"github.com/colflow/colflow/internal/dataset"
	"github.com/colflow/colflow/internal/rangeset"
)

// reader drives iteration over one range of a Dataset. Each column it is
// asked for gets one addressable reflect.Value cell, allocated once on
// first ReadColumn and overwritten in place by Next — the same "pointer
// into per-row storage" contract spec.md §4.3 describes for Reader[T],
// just realized via reflection instead of a concrete *T field, since a
// single reader here serves columns of arbitrary element type.
type reader struct {
	ds    *Dataset
	rng   rangeset.Range
	pos   int64
	cells map[string]reflect.Value
}

func (r *reader) Begin(context.Context) error {
	r.pos = r.rng.Begin - 1
	return nil
}

func (r *reader) Next(context.Context) (bool, error) {
	r.pos++
	if r.pos >= r.rng.End {
		return false, nil
	}
	for name, cell := range r.cells {
		col := reflect.ValueOf(r.ds.columns[name])
		cell.Elem().Set(col.Index(int(r.pos)))
	}
	return true, nil
}

func (r *reader) End(context.Context) error { return nil }

func (r *reader) ReadColumn(_ rangeset.Range, name string) (dataset.ColumnSource, error) {
	if _, ok := r.cells[name]; !ok {
		col, ok := r.ds.columns[name]
		if !ok {
			return nil, fmt.Errorf("memdataset: unknown column %q", name)
		}
		elemType := reflect.TypeOf(col).Elem()
		r.cells[name] = reflect.New(elemType)
	}
	return columnSource{ptr: r.cells[name].Interface()}, nil
}

type columnSource struct{ ptr any }

func (c columnSource) Address() any { return c.ptr }
