// internal/ml/normalizer.go
package ml

import (
	"fmt"
)

// NormalizationParams holds per-index min/max bounds computed from a
// training batch. They are persisted alongside the model that was trained
// on them; vector length and index order are part of that model's contract.
type NormalizationParams struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// Len returns the number of feature indices covered.
func (p NormalizationParams) Len() int { return len(p.Min) }

// Fit computes per-index min/max across a batch of equal-length vectors.
// An empty batch yields empty params without error.
func Fit(vectors [][]float64) NormalizationParams {
	if len(vectors) == 0 {
		return NormalizationParams{}
	}

	n := len(vectors[0])
	p := NormalizationParams{
		Min: make([]float64, n),
		Max: make([]float64, n),
	}
	copy(p.Min, vectors[0])
	copy(p.Max, vectors[0])

	for _, v := range vectors[1:] {
		for i := 0; i < n && i < len(v); i++ {
			if v[i] < p.Min[i] {
				p.Min[i] = v[i]
			}
			if v[i] > p.Max[i] {
				p.Max[i] = v[i]
			}
		}
	}
	return p
}

// Apply min-max scales v into [0,1] using the fitted bounds. A feature whose
// batch range was degenerate (max == min) maps to 0 rather than NaN. A
// length mismatch is a programming error in the caller's feature wiring and
// is reported as such.
func Apply(p NormalizationParams, v []float64) ([]float64, error) {
	if len(v) != p.Len() {
		return nil, fmt.Errorf("ml: vector length %d does not match params length %d", len(v), p.Len())
	}

	out := make([]float64, len(v))
	for i, val := range v {
		span := p.Max[i] - p.Min[i]
		if span == 0 {
			out[i] = 0
			continue
		}
		out[i] = (val - p.Min[i]) / span
	}
	return out, nil
}

// FitApply fits params on the batch and returns the normalized batch with
// the params, the common training-time path.
func FitApply(vectors [][]float64) ([][]float64, NormalizationParams, error) {
	p := Fit(vectors)
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		nv, err := Apply(p, v)
		if err != nil {
			return nil, NormalizationParams{}, err
		}
		out[i] = nv
	}
	return out, p, nil
}
