package builtinquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTalliesNonzeroWeight(t *testing.T) {
	c := NewCount()
	c.Count(1.0)
	c.Count(1.0)
	c.Count(0.0)
	assert.Equal(t, int64(2), c.GetResult())
}

func TestCountMerge(t *testing.T) {
	c := NewCount()
	assert.Equal(t, int64(100), c.Merge([]int64{25, 25, 25, 25}))
}

func TestSumFillValues(t *testing.T) {
	s := NewSum()
	s.FillValues([]any{1.0}, 0.5)
	s.FillValues([]any{1.0}, 0.5)
	s.FillValues([]any{1.0}, 2.0)
	s.FillValues([]any{1.0}, 2.0)
	assert.Equal(t, 5.0, s.GetResult())
}

func TestSumAcceptsIntValues(t *testing.T) {
	s := NewSum()
	s.FillValues([]any{int64(3)}, 1.0)
	assert.Equal(t, 3.0, s.GetResult())
}

func TestSumMerge(t *testing.T) {
	s := NewSum()
	assert.Equal(t, 6.0, s.Merge([]float64{1, 2, 3}))
}

func TestCollectConcatenatesAcrossSlots(t *testing.T) {
	c := NewCollect()
	merged := c.Merge([][]any{{0, 1, 2}, {3, 4}, {}, {5}})
	assert.ElementsMatch(t, []any{0, 1, 2, 3, 4, 5}, merged)
}

func TestCollectSkipsZeroWeightFills(t *testing.T) {
	c := NewCollect()
	c.FillValues([]any{1}, 1.0)
	c.FillValues([]any{2}, 0.0)
	c.FillValues([]any{3}, 1.0)
	assert.Equal(t, []any{1, 3}, c.GetResult())
}
