package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominalOnlyHasNoVariations(t *testing.T) {
	v := Of(10)
	assert.False(t, v.IsVaried())
	assert.Empty(t, v.VariationNames())
	assert.Equal(t, 10, v.Nominal())
}

func TestWithAddsNamedVariation(t *testing.T) {
	v, err := Of(10).With("shift", 12)
	require.NoError(t, err)
	assert.True(t, v.IsVaried())
	assert.Equal(t, []string{"shift"}, v.VariationNames())
	assert.Equal(t, 12, v.Variation("shift"))
}

func TestVariationFallsBackToNominalForUnknownName(t *testing.T) {
	v, err := Of(10).With("shift", 12)
	require.NoError(t, err)
	assert.Equal(t, 10, v.Variation("nonexistent"))
}

func TestWithRejectsDuplicateName(t *testing.T) {
	v, err := Of(10).With("shift", 12)
	require.NoError(t, err)
	_, err = v.With("shift", 14)
	assert.Error(t, err)
}

func TestWithDoesNotMutateOriginal(t *testing.T) {
	base := Of(10)
	withShift, err := base.With("shift", 12)
	require.NoError(t, err)

	assert.Empty(t, base.VariationNames())
	assert.Equal(t, []string{"shift"}, withShift.VariationNames())
}

func TestUnionOfHeterogeneousArguments(t *testing.T) {
	a, err := Of(1).With("shift", 2)
	require.NoError(t, err)
	b, err := Of("x").With("smear", "y")
	require.NoError(t, err)
	c := Of(3.14)

	assert.Equal(t, []string{"shift", "smear"}, Union(a, b, c))
}

func TestUnionOfNoArgumentsIsEmpty(t *testing.T) {
	assert.Empty(t, Union())
}
