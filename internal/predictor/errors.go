// internal/predictor/errors.go
package predictor

import "errors"

var (
	// ErrUnknownTask is returned for a task name outside conversion,
	// engagement and churn.
	ErrUnknownTask = errors.New("predictor: unknown task")

	// ErrInsufficientData is returned when a training run had fewer usable
	// records than the task minimum. A previously ready model is left
	// untouched.
	ErrInsufficientData = errors.New("predictor: insufficient training data")

	// ErrModelNotFound is returned by model stores when no persisted model
	// exists for a task.
	ErrModelNotFound = errors.New("predictor: model not found")
)
