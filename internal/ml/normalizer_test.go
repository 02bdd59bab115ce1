package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_ComputesPerIndexBounds(t *testing.T) {
	batch := [][]float64{
		{1, 10, -5},
		{3, 10, 0},
		{2, 10, 5},
	}

	p := Fit(batch)
	assert.Equal(t, []float64{1, 10, -5}, p.Min)
	assert.Equal(t, []float64{3, 10, 5}, p.Max)
}

func TestFit_EmptyBatch(t *testing.T) {
	p := Fit(nil)
	assert.Zero(t, p.Len())
}

func TestApply_ValuesInUnitInterval(t *testing.T) {
	batch := [][]float64{
		{0, 100, 7},
		{50, 200, 7},
		{100, 150, 7},
	}

	p := Fit(batch)
	for _, v := range batch {
		out, err := Apply(p, v)
		require.NoError(t, err)
		for i, f := range out {
			assert.GreaterOrEqual(t, f, 0.0, "index %d", i)
			assert.LessOrEqual(t, f, 1.0, "index %d", i)
		}
	}
}

func TestApply_DegenerateRangeMapsToZero(t *testing.T) {
	batch := [][]float64{{7, 1}, {7, 2}, {7, 3}}

	p := Fit(batch)
	out, err := Apply(p, []float64{7, 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0], "constant feature must normalize to 0, not NaN")
	assert.Equal(t, 0.5, out[1])
}

func TestApply_LengthMismatch(t *testing.T) {
	p := Fit([][]float64{{1, 2}, {3, 4}})
	_, err := Apply(p, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestFitApply_RoundTrip(t *testing.T) {
	batch := [][]float64{{0, 5}, {10, 5}, {5, 5}}

	normalized, params, err := FitApply(batch)
	require.NoError(t, err)
	require.Len(t, normalized, 3)
	assert.Equal(t, 2, params.Len())
	assert.Equal(t, []float64{0, 0}, normalized[0])
	assert.Equal(t, []float64{1, 0}, normalized[1])
	assert.Equal(t, []float64{0.5, 0}, normalized[2])
}
