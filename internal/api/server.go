// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/foliometry/insight/internal/config"
	"github.com/foliometry/insight/internal/forecast"
	"github.com/foliometry/insight/internal/metrics"
	"github.com/foliometry/insight/internal/predictor"
	"github.com/foliometry/insight/internal/session"
)

// DailyCountSource provides the aggregated series the forecast endpoint
// uses when the caller does not supply one.
type DailyCountSource interface {
	DailyCounts(ctx context.Context, since time.Time) ([]session.DailyCount, error)
}

// Server is the thin HTTP surface over the scoring engine. Routing, auth
// and the platform's CRUD endpoints live elsewhere; this server exposes
// only the engine's external interface.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	manager    *predictor.Manager
	forecaster *forecast.Engine
	history    predictor.HistoryStore
	counts     DailyCountSource
	metrics    *metrics.Metrics
	httpServer *http.Server
	router     chi.Router
}

// NewServer wires the engine into an HTTP server. history and counts may be
// nil; the affected endpoints then report the capability as unavailable.
func NewServer(cfg *config.Config, manager *predictor.Manager, forecaster *forecast.Engine,
	history predictor.HistoryStore, counts DailyCountSource, m *metrics.Metrics, logger *zap.Logger) *Server {

	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		manager:    manager,
		forecaster: forecaster,
		history:    history,
		counts:     counts,
		metrics:    m,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Post("/predict/{task}", s.handlePredict)
		r.Get("/churn/{visitorID}", s.handleChurn)
		r.Post("/train/{task}", s.handleTrain)
		r.Get("/models/{task}/metrics", s.handleModelMetrics)
		r.Post("/forecast", s.handleForecast)
	})

	return r
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("api server listening", zap.Int("port", s.cfg.Server.Port))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
