// internal/ml/model.go
package ml

import (
	"fmt"
	"time"
)

// State is a model's lifecycle state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateTraining      State = "training"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// Model is a named, trained predictor together with the normalization
// params it was fitted with and its training metadata. A Model is immutable
// once built; retraining produces a new Model that the owner swaps in
// atomically.
type Model struct {
	Task        string              `json:"task"`
	State       State               `json:"state"`
	Predictor   *LogisticModel      `json:"predictor"`
	Norm        NormalizationParams `json:"normalization"`
	SampleCount int                 `json:"sample_count"`
	TrainedAt   time.Time           `json:"trained_at"`
}

// Ready reports whether the model can serve predictions.
func (m *Model) Ready() bool {
	return m != nil && m.State == StateReady && m.Predictor != nil
}

// Validate checks the vector-length invariant between the predictor and its
// normalization params. A violation is a programming error (or a corrupted
// persisted model) and is caught here, at binding time, rather than during
// inference.
func (m *Model) Validate() error {
	if m.Predictor == nil {
		return fmt.Errorf("ml: model %q has no predictor", m.Task)
	}
	if len(m.Predictor.Weights) != m.Norm.Len() {
		return fmt.Errorf("ml: model %q dimension %d does not match normalization params length %d",
			m.Task, len(m.Predictor.Weights), m.Norm.Len())
	}
	return nil
}

// Score normalizes a raw feature vector and runs inference, returning a
// probability in [0,1].
func (m *Model) Score(features []float64) (float64, error) {
	normalized, err := Apply(m.Norm, features)
	if err != nil {
		return 0, err
	}
	return m.Predictor.Predict(normalized)
}
