// internal/store/models.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foliometry/insight/internal/ml"
	"github.com/foliometry/insight/internal/predictor"
)

// SaveModel upserts a trained model's parameters, keyed by task name. The
// whole model (weights, normalization params, metadata) travels as one JSON
// payload so the row is always internally consistent.
func (p *Postgres) SaveModel(ctx context.Context, m *ml.Model) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model %q: %w", m.Task, err)
	}

	query := `
		INSERT INTO models (task, payload, sample_count, trained_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (task)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			sample_count = EXCLUDED.sample_count,
			trained_at = EXCLUDED.trained_at,
			updated_at = NOW()`

	if _, err := p.db.ExecContext(ctx, query, m.Task, payload, m.SampleCount, m.TrainedAt); err != nil {
		return fmt.Errorf("save model %q: %w", m.Task, err)
	}
	return nil
}

// LoadModel reads a persisted model back. A missing row maps to
// predictor.ErrModelNotFound so callers can treat absence as a normal cold
// start rather than a storage failure.
func (p *Postgres) LoadModel(ctx context.Context, task string) (*ml.Model, error) {
	var payload []byte
	query := `SELECT payload FROM models WHERE task = $1`
	err := p.db.QueryRowContext(ctx, query, task).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", predictor.ErrModelNotFound, task)
	}
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", task, err)
	}

	var m ml.Model
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decode model %q: %w", task, err)
	}
	return &m, nil
}
