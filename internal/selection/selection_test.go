package selection

import (
	"testing"

	"github.com/colflow/colflow/internal/column"
	"github.com/colflow/colflow/internal/rangeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func TestCutComposition(t *testing.T) {
	// (filter A then filter B).passed_cut <=> A.passed_cut && B.passed_cut
	xs := []int{1, 3, 9}
	for _, x := range xs {
		cf := NewCutflow() // fresh tree per x since sibling names must stay unique
		xc := column.NewConstant(x)
		da, err := column.Equation[bool](func(v int) bool { return v > 2 }, column.Of[int](xc))
		require.NoError(t, err)
		decisionA := column.Convert[bool, float64](da, boolToFloat)
		a, err := cf.Filter(nil, "A", decisionA)
		require.NoError(t, err)

		db, err := column.Equation[bool](func(v int) bool { return v < 8 }, column.Of[int](xc))
		require.NoError(t, err)
		decisionB := column.Convert[bool, float64](db, boolToFloat)
		b, err := cf.Filter(a, "B", decisionB)
		require.NoError(t, err)

		rng := rangeset.Range{Begin: 0, End: 1}
		require.NoError(t, da.Execute(rng, 0))
		require.NoError(t, db.Execute(rng, 0))
		require.NoError(t, a.Execute(rng, 0))
		require.NoError(t, b.Execute(rng, 0))

		expected := (x > 2) && (x < 8)
		assert.Equal(t, expected, b.PassedCut(), "x=%d", x)
	}
}

func TestWeightComposition(t *testing.T) {
	cf := NewCutflow()
	w1 := column.NewConstant(0.5)
	w2 := column.NewConstant(2.0)
	a, err := cf.Weight(nil, "w1", w1)
	require.NoError(t, err)
	b, err := cf.Weight(a, "w2", w2)
	require.NoError(t, err)

	rng := rangeset.Range{Begin: 0, End: 1}
	require.NoError(t, a.Execute(rng, 0))
	require.NoError(t, b.Execute(rng, 0))
	assert.Equal(t, 1.0, b.GetWeight())
}

func TestChannelPathAndCascade(t *testing.T) {
	// filters A: x>2, then channel B: x<8, then C: x%2==0, on x=[1..9].
	cf := NewCutflow()
	type row struct {
		x      int
		passed bool
	}
	var results []row

	for x := 1; x <= 9; x++ {
		xc := column.NewConstant(x)
		dA, _ := column.Equation[bool](func(v int) bool { return v > 2 }, column.Of[int](xc))
		a, err := cf.Filter(nil, "A", column.Convert[bool, float64](dA, boolToFloat))
		require.NoError(t, err)

		dB, _ := column.Equation[bool](func(v int) bool { return v < 8 }, column.Of[int](xc))
		b, err := cf.Channel(a, "B", column.Convert[bool, float64](dB, boolToFloat))
		require.NoError(t, err)
		assert.Equal(t, "A/B", b.FullPath())
		assert.Equal(t, "B", b.Path(), "path only includes channel ancestors + own name")

		dC, _ := column.Equation[bool](func(v int) bool { return v%2 == 0 }, column.Of[int](xc))
		c, err := cf.Filter(b, "C", column.Convert[bool, float64](dC, boolToFloat))
		require.NoError(t, err)
		assert.Equal(t, "A/B/C", c.FullPath())
		assert.Equal(t, "B/C", c.Path())

		rng := rangeset.Range{Begin: 0, End: 1}
		for _, act := range []interface {
			Execute(rangeset.Range, int64) error
		}{dA, dB, dC, a, b, c} {
			require.NoError(t, act.Execute(rng, 0))
		}
		results = append(results, row{x: x, passed: c.PassedCut()})

		cf = NewCutflow() // fresh tree per x since paths must stay unique
	}

	var passing []int
	for _, r := range results {
		if r.passed {
			passing = append(passing, r.x)
		}
	}
	assert.Equal(t, []int{4, 6}, passing)
}

func TestDuplicatePathRejected(t *testing.T) {
	cf := NewCutflow()
	d := column.NewConstant(1.0)
	_, err := cf.Filter(nil, "A", d)
	require.NoError(t, err)
	_, err = cf.Filter(nil, "A", d)
	assert.Error(t, err)
}

func TestGetNotFound(t *testing.T) {
	cf := NewCutflow()
	_, err := cf.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoin(t *testing.T) {
	cf := NewCutflow()
	wa := column.NewConstant(2.0)
	wb := column.NewConstant(3.0)
	a, err := cf.Weight(nil, "a", wa)
	require.NoError(t, err)
	b, err := cf.Weight(nil, "b", wb)
	require.NoError(t, err)

	rng := rangeset.Range{Begin: 0, End: 1}
	require.NoError(t, a.Execute(rng, 0))
	require.NoError(t, b.Execute(rng, 0))

	j := Join(a, b)
	require.NoError(t, j.Execute(rng, 0))
	assert.True(t, j.PassedCut())
	assert.Equal(t, 6.0, j.GetWeight())
}
