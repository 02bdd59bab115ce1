// internal/predictor/manager.go
package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/foliometry/insight/internal/metrics"
	"github.com/foliometry/insight/internal/ml"
	"github.com/foliometry/insight/internal/scoring"
	"github.com/foliometry/insight/internal/session"
)

// HistoryStore is the historical-session query capability this engine
// consumes. Implementations return eventually-consistent snapshots; no
// additional coordination happens here.
type HistoryStore interface {
	// SessionsSince returns quality-filtered sessions (non-zero duration
	// and pages viewed) that started at or after the given time.
	SessionsSince(ctx context.Context, since time.Time) ([]session.Session, error)
	// SessionsForVisitor returns one visitor's sessions, any order.
	SessionsForVisitor(ctx context.Context, visitorID string) ([]session.Session, error)
}

// ModelStore durably persists trained models keyed by task name.
type ModelStore interface {
	SaveModel(ctx context.Context, m *ml.Model) error
	// LoadModel returns ErrModelNotFound when no model is persisted.
	LoadModel(ctx context.Context, task string) (*ml.Model, error)
}

// Config holds the manager's training thresholds and hyperparameters.
type Config struct {
	// MinTrainingSamples applies to conversion and engagement.
	MinTrainingSamples int
	// MinChurnVisitors is the minimum number of visitors with >=2 sessions.
	MinChurnVisitors int
	// HoldoutFraction of the most recent records used for accuracy metrics.
	HoldoutFraction float64
	// MetricsWindowDays bounds the history read for accuracy metrics.
	MetricsWindowDays int
	Epochs            int
	LearningRate      float64
}

func (c Config) withDefaults() Config {
	if c.MinTrainingSamples <= 0 {
		c.MinTrainingSamples = 100
	}
	if c.MinChurnVisitors <= 0 {
		c.MinChurnVisitors = 50
	}
	if c.HoldoutFraction <= 0 || c.HoldoutFraction >= 1 {
		c.HoldoutFraction = 0.2
	}
	if c.MetricsWindowDays <= 0 {
		c.MetricsWindowDays = 90
	}
	return c
}

// ChurnNeutralRisk is returned when a visitor has too little history or no
// churn model is ready.
const ChurnNeutralRisk = 50

// ModelMetrics summarizes a model's held-out accuracy.
type ModelMetrics struct {
	Task        string    `json:"task"`
	Accuracy    float64   `json:"accuracy"`
	SampleSize  int       `json:"sample_size"`
	LastTrained time.Time `json:"last_trained"`
}

// slot holds one task's live model. trainMu serializes training runs for
// the task; mu guards the model pointer, which is replaced wholesale on
// successful training so in-flight predicts keep reading a stable snapshot.
type slot struct {
	trainMu sync.Mutex
	mu      sync.RWMutex
	model   *ml.Model
}

func (sl *slot) current() *ml.Model {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.model
}

func (sl *slot) swap(m *ml.Model) {
	sl.mu.Lock()
	sl.model = m
	sl.mu.Unlock()
}

// Manager owns the lifecycle of the three predictive models and the
// fallback delegation to heuristic scoring. One Manager per process, built
// at the composition root and injected into callers.
type Manager struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	scorer  *scoring.Scorer
	history HistoryStore
	models  ModelStore
	slots   map[scoring.Task]*slot
	now     func() time.Time
}

// NewManager creates a Manager. history and models may be nil in purely
// heuristic deployments; every model-path operation then degrades to its
// fallback.
func NewManager(cfg Config, history HistoryStore, models ModelStore, m *metrics.Metrics, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Manager{
		cfg:     cfg.withDefaults(),
		logger:  logger,
		metrics: m,
		scorer:  scoring.NewScorer(),
		history: history,
		models:  models,
		slots: map[scoring.Task]*slot{
			scoring.TaskConversion: {},
			scoring.TaskEngagement: {},
			scoring.TaskChurn:      {},
		},
		now: time.Now,
	}
}

// ScoreSession runs the always-available heuristic path.
func (mg *Manager) ScoreSession(s session.Session) scoring.Insight {
	return mg.scorer.Score(s)
}

// State returns a task's current lifecycle state.
func (mg *Manager) State(task scoring.Task) ml.State {
	sl, ok := mg.slots[task]
	if !ok {
		return ml.StateUninitialized
	}
	m := sl.current()
	if m == nil {
		return ml.StateUninitialized
	}
	return m.State
}

// LoadPersisted restores any previously trained models into the ready
// state. Missing models are not an error; a corrupted model is logged and
// skipped so the task falls back to heuristics.
func (mg *Manager) LoadPersisted(ctx context.Context) error {
	if mg.models == nil {
		return nil
	}
	for task, sl := range mg.slots {
		m, err := mg.models.LoadModel(ctx, string(task))
		if errors.Is(err, ErrModelNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load model %q: %w", task, err)
		}
		if err := m.Validate(); err != nil {
			mg.logger.Warn("persisted model failed validation, ignoring",
				zap.String("task", string(task)), zap.Error(err))
			continue
		}
		m.State = ml.StateReady
		sl.swap(m)
		mg.logger.Info("model loaded",
			zap.String("task", string(task)),
			zap.Int("samples", m.SampleCount),
			zap.Time("trained_at", m.TrainedAt))
	}
	return nil
}

// Train fits a task's model from historical sessions. Training runs for the
// same task are serialized; a run with fewer usable records than the task
// minimum returns ErrInsufficientData and leaves any previously ready model
// serving. A persistence failure is surfaced to the caller and the prior
// model is also kept.
func (mg *Manager) Train(ctx context.Context, task scoring.Task, sessions []session.Session) (*ml.Model, error) {
	if !task.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}
	sl := mg.slots[task]
	sl.trainMu.Lock()
	defer sl.trainMu.Unlock()

	records, minimum := mg.buildRecords(task, sessions)
	if len(records) < minimum {
		mg.metrics.RecordTraining(string(task), metrics.OutcomeInsufficientData)
		prior := sl.current()
		if !prior.Ready() {
			sl.swap(&ml.Model{Task: string(task), State: ml.StateFailed})
		}
		mg.logger.Warn("not enough data to train model",
			zap.String("task", string(task)),
			zap.Int("records", len(records)),
			zap.Int("minimum", minimum))
		return nil, fmt.Errorf("%w: task %q has %d records, need %d",
			ErrInsufficientData, task, len(records), minimum)
	}

	model, err := mg.fit(task, records)
	if err != nil {
		mg.metrics.RecordTraining(string(task), metrics.OutcomeError)
		prior := sl.current()
		if !prior.Ready() {
			sl.swap(&ml.Model{Task: string(task), State: ml.StateFailed})
		}
		return nil, fmt.Errorf("train %q: %w", task, err)
	}

	if mg.models != nil {
		if err := mg.models.SaveModel(ctx, model); err != nil {
			mg.metrics.RecordTraining(string(task), metrics.OutcomeError)
			return nil, fmt.Errorf("persist model %q: %w", task, err)
		}
	}

	sl.swap(model)
	mg.metrics.RecordTraining(string(task), metrics.OutcomeTrained)
	mg.logger.Info("model trained",
		zap.String("task", string(task)),
		zap.Int("samples", model.SampleCount))
	return model, nil
}

func (mg *Manager) buildRecords(task scoring.Task, sessions []session.Session) ([]TrainingRecord, int) {
	switch task {
	case scoring.TaskChurn:
		return churnRecords(sessions, mg.now()), mg.cfg.MinChurnVisitors
	case scoring.TaskEngagement:
		return engagementRecords(sessions), mg.cfg.MinTrainingSamples
	default:
		return conversionRecords(sessions), mg.cfg.MinTrainingSamples
	}
}

func (mg *Manager) fit(task scoring.Task, records []TrainingRecord) (*ml.Model, error) {
	features := make([][]float64, len(records))
	labels := make([]float64, len(records))
	for i, r := range records {
		features[i] = r.Features
		labels[i] = r.Label
	}

	normalized, params, err := ml.FitApply(features)
	if err != nil {
		return nil, err
	}
	predictor, err := ml.TrainLogistic(normalized, labels, mg.cfg.Epochs, mg.cfg.LearningRate)
	if err != nil {
		return nil, err
	}

	model := &ml.Model{
		Task:        string(task),
		State:       ml.StateReady,
		Predictor:   predictor,
		Norm:        params,
		SampleCount: len(records),
		TrainedAt:   mg.now().UTC(),
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// Predict returns a bounded 0-100 score for a session. It never fails the
// caller: when the task is unknown or its model is absent, failed or errors
// during inference, the task-appropriate heuristic takes over and the
// failure is logged. For the churn task, which is visitor-keyed rather than
// session-keyed, Predict returns the neutral risk; use PredictChurnRisk.
func (mg *Manager) Predict(_ context.Context, task scoring.Task, s session.Session) float64 {
	if task == scoring.TaskChurn {
		return ChurnNeutralRisk
	}

	sl, ok := mg.slots[task]
	if !ok {
		mg.logger.Warn("prediction requested for unknown task, using heuristic",
			zap.String("task", string(task)))
		mg.metrics.RecordPrediction(string(task), metrics.PathFallback)
		return FallbackConversionScore(session.Normalize(s))
	}

	s = session.Normalize(s)
	if model := sl.current(); model.Ready() {
		score, err := model.Score(scoring.Extract(s, task))
		if err == nil {
			mg.metrics.RecordPrediction(string(task), metrics.PathModel)
			return clamp(score*100, 0, 100)
		}
		mg.logger.Warn("inference failed, falling back to heuristic",
			zap.String("task", string(task)), zap.Error(err))
	}

	mg.metrics.RecordPrediction(string(task), metrics.PathFallback)
	switch task {
	case scoring.TaskEngagement:
		return clamp(scoring.EngagementPoints(s), 0, 100)
	default:
		return FallbackConversionScore(s)
	}
}

// PredictChurnRisk returns a 0-100 churn risk for a visitor. Visitors with
// fewer than two recorded sessions, or any failure along the model path,
// yield the neutral risk of 50.
func (mg *Manager) PredictChurnRisk(ctx context.Context, visitorID string) float64 {
	if mg.history == nil || visitorID == "" {
		return ChurnNeutralRisk
	}

	history, err := mg.history.SessionsForVisitor(ctx, visitorID)
	if err != nil {
		mg.logger.Warn("visitor history unavailable",
			zap.String("visitor_id", visitorID), zap.Error(err))
		return ChurnNeutralRisk
	}
	if len(history) < 2 {
		return ChurnNeutralRisk
	}

	model := mg.slots[scoring.TaskChurn].current()
	if !model.Ready() {
		mg.metrics.RecordPrediction(string(scoring.TaskChurn), metrics.PathFallback)
		return ChurnNeutralRisk
	}

	score, err := model.Score(scoring.ChurnFeaturesAt(history, mg.now()))
	if err != nil {
		mg.logger.Warn("churn inference failed",
			zap.String("visitor_id", visitorID), zap.Error(err))
		mg.metrics.RecordPrediction(string(scoring.TaskChurn), metrics.PathFallback)
		return ChurnNeutralRisk
	}
	mg.metrics.RecordPrediction(string(scoring.TaskChurn), metrics.PathModel)
	return clamp(score*100, 0, 100)
}

// Metrics evaluates a task's model on a held-out slice of recent history
// using threshold-50 agreement against the actual labels.
func (mg *Manager) Metrics(ctx context.Context, task scoring.Task) (ModelMetrics, error) {
	if !task.Valid() {
		return ModelMetrics{}, fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}
	if mg.history == nil {
		return ModelMetrics{}, errors.New("predictor: no history store configured")
	}

	since := mg.now().AddDate(0, 0, -mg.cfg.MetricsWindowDays)
	sessions, err := mg.history.SessionsSince(ctx, since)
	if err != nil {
		return ModelMetrics{}, fmt.Errorf("read history for %q metrics: %w", task, err)
	}

	records, _ := mg.buildRecords(task, sessions)
	out := ModelMetrics{Task: string(task)}
	if m := mg.slots[task].current(); m.Ready() {
		out.LastTrained = m.TrainedAt
	}
	if len(records) == 0 {
		return out, nil
	}

	holdout := int(math.Ceil(float64(len(records)) * mg.cfg.HoldoutFraction))
	records = records[len(records)-holdout:]

	agree := 0
	for _, r := range records {
		predicted := mg.scoreRecord(task, r.Features)
		if (predicted >= 50) == (r.Label >= 0.5) {
			agree++
		}
	}
	out.SampleSize = len(records)
	out.Accuracy = float64(agree) / float64(len(records))
	return out, nil
}

// scoreRecord runs the model path on a pre-extracted feature vector,
// degrading to 50 when the model is unavailable, mirroring Predict's
// contract for inputs that only exist in feature form.
func (mg *Manager) scoreRecord(task scoring.Task, features []float64) float64 {
	model := mg.slots[task].current()
	if !model.Ready() {
		return 50
	}
	score, err := model.Score(features)
	if err != nil {
		return 50
	}
	return clamp(score*100, 0, 100)
}
