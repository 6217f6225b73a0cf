package dataflow

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/colflow/colflow/internal/builtinquery"
	"github.com/colflow/colflow/internal/ctxlog"
	"github.com/colflow/colflow/internal/memdataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context carrying a discard logger, the
// same invariant cli.Run establishes for the real entrypoint
// (ctxlog.FromContext panics on a context with no logger).
func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// alwaysPass books a root Cut selection whose decision is always 1.
func alwaysPass(t *testing.T, df *Dataflow) LazySelection {
	t.Helper()
	sel, err := Filter(df, NoParent, "root", func() float64 { return 1 }).Call()
	require.NoError(t, err)
	return sel
}

func TestCountAllRowsInvariantToConcurrency(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5} {
		ds := memdataset.New(map[string]any{"x": seq(0, 10)})
		df := New(ds, WithConcurrency(n))
		root := alwaysPass(t, df)
		q := Make[int64, *builtinquery.Count](df, builtinquery.NewCount).Book(root, df.Normalize())

		result, err := q.Result(testContext())
		require.NoError(t, err)
		assert.Equal(t, int64(10), result, "N=%d", n)
	}
}

func TestWeightedSumViaWeightSelection(t *testing.T) {
	ds := memdataset.New(map[string]any{
		"x": seq(1, 5),
		"w": []float64{0.5, 0.5, 2, 2},
	})
	df := New(ds, WithConcurrency(1))

	w := Read[float64](df, "w")
	sel, err := Weight(df, NoParent, "w", func(v float64) float64 { return v }).Call(w)
	require.NoError(t, err)

	one := Const(df, 1.0)
	q := Make[float64, *builtinquery.Sum](df, builtinquery.NewSum).Fill(one).Book(sel, df.Normalize())

	result, err := q.Result(testContext())
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestCutCompositionAndChannelPath(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": seq(1, 10)})
	df := New(ds, WithConcurrency(1))

	x := Read[int64](df, "x")
	a, err := Filter(df, NoParent, "A", func(v int64) float64 {
		if v > 2 {
			return 1
		}
		return 0
	}).Call(x)
	require.NoError(t, err)

	b, err := Channel(df, a, "B", func(v int64) float64 {
		if v < 8 {
			return 1
		}
		return 0
	}).Call(x)
	require.NoError(t, err)

	c, err := Filter(df, b, "C", func(v int64) float64 {
		if v%2 == 0 {
			return 1
		}
		return 0
	}).Call(x)
	require.NoError(t, err)

	assert.Equal(t, "B/C", c.Path())

	count := Make[int64, *builtinquery.Count](df, builtinquery.NewCount).Book(c, df.Normalize())
	sum := Make[float64, *builtinquery.Sum](df, builtinquery.NewSum).Fill(Const(df, 1.0)).Book(c, df.Normalize())

	n, err := count.Result(testContext())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := sum.Result(testContext())
	require.NoError(t, err)
	assert.Equal(t, 2.0, total)
}

func TestDuplicateSelectionNameRejected(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": seq(0, 1)})
	df := New(ds, WithConcurrency(1))

	_, err := Filter(df, NoParent, "dup", func() float64 { return 1 }).Call()
	require.NoError(t, err)
	_, err = Filter(df, NoParent, "dup", func() float64 { return 1 }).Call()
	assert.Error(t, err)
}

func TestDefinitionCachingAcrossTwoQueries(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": seq(0, 100)})
	df := New(ds, WithConcurrency(1))

	var calls int64
	x := Read[int64](df, "x")
	y, err := Define[int64](df, func(v int64) int64 {
		calls++
		return v * 2
	}).Call(x)
	require.NoError(t, err)

	selA := alwaysPass(t, df)
	selB, err := Filter(df, NoParent, "rootB", func() float64 { return 1 }).Call()
	require.NoError(t, err)

	qa := Make[[]any, *builtinquery.Collect](df, builtinquery.NewCollect).Fill(y).Book(selA, df.Normalize())
	qb := Make[[]any, *builtinquery.Collect](df, builtinquery.NewCollect).Fill(y).Book(selB, df.Normalize())

	ra, err := qa.Result(testContext())
	require.NoError(t, err)
	rb, err := qb.Result(testContext())
	require.NoError(t, err)

	assert.Len(t, ra, 100)
	assert.Len(t, rb, 100)
	assert.Equal(t, int64(100), calls, "y must be calculated exactly once per row despite two consumers")
}

func TestMergeAcrossSlots(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": seq(0, 100)})
	df := New(ds, WithConcurrency(4))
	root := alwaysPass(t, df)

	x := Read[int64](df, "x")
	q := Make[[]any, *builtinquery.Collect](df, builtinquery.NewCollect).Fill(x).Book(root, df.Normalize())

	result, err := q.Result(testContext())
	require.NoError(t, err)
	assert.Len(t, result, 100)

	want := make([]any, 100)
	for i := range want {
		want[i] = int64(i)
	}
	assert.ElementsMatch(t, want, result)
}

func TestResultIsIdempotent(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": seq(0, 10)})
	df := New(ds, WithConcurrency(1))
	root := alwaysPass(t, df)
	q := Make[int64, *builtinquery.Count](df, builtinquery.NewCount).Book(root, df.Normalize())

	first, err := q.Result(testContext())
	require.NoError(t, err)
	second, err := q.Result(testContext())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLookupByFullPath(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": seq(0, 1)})
	df := New(ds, WithConcurrency(1))
	_, err := Filter(df, NoParent, "root", func() float64 { return 1 }).Call()
	require.NoError(t, err)

	found, err := df.Lookup("root")
	require.NoError(t, err)
	assert.Equal(t, "root", found.FullPath())

	_, err = df.Lookup("nonexistent")
	assert.Error(t, err)
}

func seq(begin, end int64) []int64 {
	out := make([]int64, 0, end-begin)
	for i := begin; i < end; i++ {
		out = append(out, i)
	}
	return out
}
