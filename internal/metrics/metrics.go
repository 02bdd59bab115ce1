// internal/metrics/metrics.go
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	PredictionCounter *prometheus.CounterVec
	TrainingCounter   *prometheus.CounterVec
	RequestCounter    *prometheus.CounterVec
	LatencyHistogram  *prometheus.HistogramVec
	registry          *prometheus.Registry
}

// Prediction path labels.
const (
	PathModel    = "model"
	PathFallback = "fallback"
)

// Training outcome labels.
const (
	OutcomeTrained          = "trained"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeError            = "error"
)

// New creates and registers all metrics on a private registry, so tests can
// build as many instances as they need without duplicate-registration
// panics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		PredictionCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insight_predictions_total",
				Help: "Predictions served, by task and serving path",
			},
			[]string{"task", "path"},
		),
		TrainingCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insight_training_runs_total",
				Help: "Model training runs, by task and outcome",
			},
			[]string{"task", "outcome"},
		),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insight_requests_total",
				Help: "HTTP requests, by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		LatencyHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "insight_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registry: registry,
	}

	registry.MustRegister(m.PredictionCounter)
	registry.MustRegister(m.TrainingCounter)
	registry.MustRegister(m.RequestCounter)
	registry.MustRegister(m.LatencyHistogram)

	return m
}

// RecordPrediction counts one served prediction.
func (m *Metrics) RecordPrediction(task, path string) {
	m.PredictionCounter.WithLabelValues(task, path).Inc()
}

// RecordTraining counts one training run.
func (m *Metrics) RecordTraining(task, outcome string) {
	m.TrainingCounter.WithLabelValues(task, outcome).Inc()
}

// RecordRequest counts one HTTP request.
func (m *Metrics) RecordRequest(method, path string, status int) {
	m.RequestCounter.WithLabelValues(method, path, fmt.Sprintf("%d", status)).Inc()
}

// RecordLatency records HTTP request latency.
func (m *Metrics) RecordLatency(method, path string, seconds float64) {
	m.LatencyHistogram.WithLabelValues(method, path).Observe(seconds)
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
