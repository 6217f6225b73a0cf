package memdataset

import (
	"context"
	"testing"

	"github.com/colflow/colflow/internal/rangeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(begin, end int64) rangeset.Range {
	return rangeset.Range{Begin: begin, End: end, Slot: 0}
}

func TestAllocateReportsTotalEntries(t *testing.T) {
	ds := New(map[string]any{"x": []int64{10, 20, 30}})
	p, err := ds.Allocate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Entries())
	assert.False(t, p.Fixed)
}

func TestAllocateEmptyDataset(t *testing.T) {
	ds := New(map[string]any{"x": []int64{}})
	p, err := ds.Allocate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Entries())
}

func TestReaderIteratesRange(t *testing.T) {
	ds := New(map[string]any{"x": []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}})
	r, err := ds.Open(context.Background(), rng(2, 5))
	require.NoError(t, err)
	require.NoError(t, r.Begin(context.Background()))

	src, err := r.ReadColumn(rng(2, 5), "x")
	require.NoError(t, err)
	cell := src.Address().(*int64)

	var seen []int64
	for {
		ok, err := r.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		seen = append(seen, *cell)
	}
	assert.Equal(t, []int64{2, 3, 4}, seen)
	require.NoError(t, r.End(context.Background()))
}

func TestReadColumnUnknownName(t *testing.T) {
	ds := New(map[string]any{"x": []int64{1}})
	r, err := ds.Open(context.Background(), rng(0, 1))
	require.NoError(t, err)
	_, err = r.ReadColumn(rng(0, 1), "missing")
	assert.Error(t, err)
}

func TestMultipleColumnsUpdateTogether(t *testing.T) {
	ds := New(map[string]any{
		"x": []int64{1, 2, 3},
		"w": []float64{0.5, 0.5, 2},
	})
	r, err := ds.Open(context.Background(), rng(0, 3))
	require.NoError(t, err)
	require.NoError(t, r.Begin(context.Background()))

	xSrc, err := r.ReadColumn(rng(0, 3), "x")
	require.NoError(t, err)
	wSrc, err := r.ReadColumn(rng(0, 3), "w")
	require.NoError(t, err)
	xCell := xSrc.Address().(*int64)
	wCell := wSrc.Address().(*float64)

	var xs []int64
	var ws []float64
	for {
		ok, err := r.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		xs = append(xs, *xCell)
		ws = append(ws, *wCell)
	}
	assert.Equal(t, []int64{1, 2, 3}, xs)
	assert.Equal(t, []float64{0.5, 0.5, 2}, ws)
}

func TestWithNormalize(t *testing.T) {
	ds := New(map[string]any{"x": []int64{1}}).WithNormalize(2.5)
	assert.Equal(t, 2.5, ds.Normalize())
}
