package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainLogistic_SeparatesObviousClasses(t *testing.T) {
	var features [][]float64
	var labels []float64
	for i := 0; i < 50; i++ {
		features = append(features, []float64{0.9, 0.8})
		labels = append(labels, 1)
		features = append(features, []float64{0.1, 0.2})
		labels = append(labels, 0)
	}

	m, err := TrainLogistic(features, labels, 500, 0.5)
	require.NoError(t, err)

	high, err := m.Predict([]float64{0.9, 0.8})
	require.NoError(t, err)
	low, err := m.Predict([]float64{0.1, 0.2})
	require.NoError(t, err)

	assert.Greater(t, high, 0.7)
	assert.Less(t, low, 0.3)
}

func TestTrainLogistic_Deterministic(t *testing.T) {
	features := [][]float64{{0.1}, {0.9}, {0.4}, {0.7}}
	labels := []float64{0, 1, 0, 1}

	a, err := TrainLogistic(features, labels, 100, 0.1)
	require.NoError(t, err)
	b, err := TrainLogistic(features, labels, 100, 0.1)
	require.NoError(t, err)

	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.Bias, b.Bias)
}

func TestTrainLogistic_InputValidation(t *testing.T) {
	_, err := TrainLogistic(nil, nil, 10, 0.1)
	assert.Error(t, err)

	_, err = TrainLogistic([][]float64{{1}}, []float64{1, 0}, 10, 0.1)
	assert.Error(t, err)

	_, err = TrainLogistic([][]float64{{1, 2}, {1}}, []float64{1, 0}, 10, 0.1)
	assert.Error(t, err)
}

func TestPredict_BoundedOutput(t *testing.T) {
	m := &LogisticModel{Weights: []float64{1000, -1000}, Bias: 5}

	p, err := m.Predict([]float64{1, 0})
	require.NoError(t, err)
	assert.LessOrEqual(t, p, 1.0)

	p, err = m.Predict([]float64{0, 1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
}

func TestPredict_DimensionMismatch(t *testing.T) {
	m := &LogisticModel{Weights: []float64{0.5, 0.5}}
	_, err := m.Predict([]float64{1})
	assert.Error(t, err)
}

func TestModelValidate(t *testing.T) {
	valid := &Model{
		Task:      "conversion",
		Predictor: &LogisticModel{Weights: []float64{1, 2}},
		Norm:      NormalizationParams{Min: []float64{0, 0}, Max: []float64{1, 1}},
	}
	assert.NoError(t, valid.Validate())

	mismatched := &Model{
		Task:      "conversion",
		Predictor: &LogisticModel{Weights: []float64{1, 2, 3}},
		Norm:      NormalizationParams{Min: []float64{0, 0}, Max: []float64{1, 1}},
	}
	assert.Error(t, mismatched.Validate())

	empty := &Model{Task: "churn"}
	assert.Error(t, empty.Validate())
}

func TestModelReady(t *testing.T) {
	var nilModel *Model
	assert.False(t, nilModel.Ready())
	assert.False(t, (&Model{State: StateFailed}).Ready())
	assert.False(t, (&Model{State: StateReady}).Ready(), "ready state without predictor is not servable")
	assert.True(t, (&Model{State: StateReady, Predictor: &LogisticModel{}}).Ready())
}
