// internal/ml/logistic.go
package ml

import (
	"errors"
	"fmt"
	"math"
)

// Training defaults. Deterministic: weights start at zero and the data is
// consumed in order, so the same records always produce the same model.
const (
	DefaultEpochs       = 300
	DefaultLearningRate = 0.1
)

var errNoTrainingData = errors.New("ml: no training data")

// LogisticModel is a binary logistic regression classifier. Labels may be
// soft (any value in [0,1]); the output is always a bounded probability.
type LogisticModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// TrainLogistic fits a logistic model by batch gradient descent over
// normalized features. epochs/learningRate fall back to defaults when
// non-positive.
func TrainLogistic(features [][]float64, labels []float64, epochs int, learningRate float64) (*LogisticModel, error) {
	if len(features) == 0 {
		return nil, errNoTrainingData
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("ml: %d feature rows but %d labels", len(features), len(labels))
	}
	if epochs <= 0 {
		epochs = DefaultEpochs
	}
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}

	dim := len(features[0])
	for i, row := range features {
		if len(row) != dim {
			return nil, fmt.Errorf("ml: row %d has length %d, want %d", i, len(row), dim)
		}
	}

	m := &LogisticModel{Weights: make([]float64, dim)}
	n := float64(len(features))

	gradW := make([]float64, dim)
	for epoch := 0; epoch < epochs; epoch++ {
		for i := range gradW {
			gradW[i] = 0
		}
		var gradB float64

		for i, row := range features {
			p := m.raw(row)
			diff := p - labels[i]
			for j, x := range row {
				gradW[j] += diff * x
			}
			gradB += diff
		}

		for j := range m.Weights {
			m.Weights[j] -= learningRate * gradW[j] / n
		}
		m.Bias -= learningRate * gradB / n
	}

	return m, nil
}

// Predict returns the model probability in [0,1] for a normalized vector.
func (m *LogisticModel) Predict(v []float64) (float64, error) {
	if len(v) != len(m.Weights) {
		return 0, fmt.Errorf("ml: vector length %d does not match model dimension %d", len(v), len(m.Weights))
	}
	return m.raw(v), nil
}

func (m *LogisticModel) raw(v []float64) float64 {
	z := m.Bias
	for i, w := range m.Weights {
		z += w * v[i]
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	// Guard against overflow for extreme inputs.
	if z < -500 {
		return 0
	}
	if z > 500 {
		return 1
	}
	return 1 / (1 + math.Exp(-z))
}
