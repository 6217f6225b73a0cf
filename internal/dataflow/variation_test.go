package dataflow

import (
	"testing"

	"github.com/colflow/colflow/internal/builtinquery"
	"github.com/colflow/colflow/internal/memdataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVariationPropagationThroughSum mirrors spec.md §8 scenario 5: a
// reader column x plus a named alternative x_up, summed via a query
// booked at a plain (non-varied) root selection. On a dataset where x
// sums to 10 and x_up sums to 12, Result must yield
// {"nominal": 10, "shift": 12} from a single pass.
func TestVariationPropagationThroughSum(t *testing.T) {
	ds := memdataset.New(map[string]any{
		"x":    []float64{1, 2, 3, 4},
		"x_up": []float64{2, 3, 3, 4},
	})
	df := New(ds, WithConcurrency(1))
	root := alwaysPass(t, df)

	x := Read[float64](df, "x")
	xUp := Read[float64](df, "x_up")
	varied, err := VaryColumn(x, "shift", xUp)
	require.NoError(t, err)

	sum := Make[float64, *builtinquery.Sum](df, builtinquery.NewSum).
		FillVaried(varied).
		BookVaried(NoVariationSelection(root), df.Normalize())

	results, err := sum.Result(testContext())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"nominal": 10, "shift": 12}, results)
}

// TestVariationPropagationThroughSelection checks that a varied decision
// column propagates through a varied selection into the per-universe
// passed-row count.
func TestVariationPropagationThroughSelection(t *testing.T) {
	ds := memdataset.New(map[string]any{
		"x":        seq(1, 11),
		"x_strict": []int64{-1, 0, 1, 2, 3, 4, 5, 6, 7, 8},
	})
	df := New(ds, WithConcurrency(1))

	x := Read[int64](df, "x")
	xStrict := Read[int64](df, "x_strict")
	decisionArg, err := VaryColumn(x, "strict", xStrict)
	require.NoError(t, err)

	greaterThanFive := func(v int64) float64 {
		if v > 5 {
			return 1
		}
		return 0
	}
	root, err := FilterVaried(df, NoParentVaried, "root", greaterThanFive, decisionArg)
	require.NoError(t, err)
	assert.Equal(t, []string{"strict"}, root.VariationNames())

	count := Make[int64, *builtinquery.Count](df, builtinquery.NewCount).BookVaried(root, df.Normalize())
	results, err := count.Result(testContext())
	require.NoError(t, err)
	assert.Equal(t, int64(5), results["nominal"])
	assert.Equal(t, int64(3), results["strict"])
}

func TestVaryColumnRejectsDuplicateName(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": seq(0, 1), "y": seq(0, 1)})
	df := New(ds, WithConcurrency(1))
	x := Read[int64](df, "x")
	y := Read[int64](df, "y")

	varied, err := VaryColumn(x, "shift", y)
	require.NoError(t, err)
	_, err = varied.With("shift", y)
	assert.Error(t, err)
}

func TestVariationUnknownNameFallsBackToNominal(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": seq(0, 1), "y": seq(0, 1)})
	df := New(ds, WithConcurrency(1))
	x := Read[int64](df, "x")
	y := Read[int64](df, "y")

	varied, err := VaryColumn(x, "shift", y)
	require.NoError(t, err)
	assert.Equal(t, x, varied.Variation("nonexistent"))
}
