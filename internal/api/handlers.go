// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/foliometry/insight/internal/predictor"
	"github.com/foliometry/insight/internal/scoring"
	"github.com/foliometry/insight/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScore handles POST /v1/score: the always-available heuristic path.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var sess session.Session
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		http.Error(w, "invalid session payload", http.StatusBadRequest)
		return
	}

	s.writeJSON(w, http.StatusOK, s.manager.ScoreSession(sess))
}

// handlePredict handles POST /v1/predict/{task}: the model-or-fallback
// path. A prediction is always returned, never an engine error.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	task := scoring.Task(chi.URLParam(r, "task"))
	if !task.Valid() {
		http.Error(w, "unknown task", http.StatusBadRequest)
		return
	}

	var sess session.Session
	if err := json.NewDecoder(r.Body).Decode(&sess); err != nil {
		http.Error(w, "invalid session payload", http.StatusBadRequest)
		return
	}

	score := s.manager.Predict(r.Context(), task, sess)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"task":        task,
		"score":       score,
		"model_state": s.manager.State(task),
	})
}

// handleChurn handles GET /v1/churn/{visitorID}.
func (s *Server) handleChurn(w http.ResponseWriter, r *http.Request) {
	visitorID := chi.URLParam(r, "visitorID")
	risk := s.manager.PredictChurnRisk(r.Context(), visitorID)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"visitor_id": visitorID,
		"risk":       risk,
	})
}

// handleTrain handles POST /v1/train/{task}. Training is administrative, so
// unlike the scoring paths its failures are surfaced to the caller.
func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	task := scoring.Task(chi.URLParam(r, "task"))
	if !task.Valid() {
		http.Error(w, "unknown task", http.StatusBadRequest)
		return
	}
	if s.history == nil {
		http.Error(w, "no session history configured", http.StatusServiceUnavailable)
		return
	}

	since := time.Now().AddDate(0, 0, -s.cfg.Models.TrainingWindowDays)
	sessions, err := s.history.SessionsSince(r.Context(), since)
	if err != nil {
		s.logger.Error("failed to read training history",
			zap.String("task", string(task)), zap.Error(err))
		http.Error(w, "session history unavailable", http.StatusBadGateway)
		return
	}

	model, err := s.manager.Train(r.Context(), task, sessions)
	if errors.Is(err, predictor.ErrInsufficientData) {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"task":    task,
			"trained": false,
			"reason":  err.Error(),
			"state":   s.manager.State(task),
		})
		return
	}
	if err != nil {
		s.logger.Error("training failed", zap.String("task", string(task)), zap.Error(err))
		http.Error(w, "training failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"task":       task,
		"trained":    true,
		"samples":    model.SampleCount,
		"trained_at": model.TrainedAt,
	})
}

// handleModelMetrics handles GET /v1/models/{task}/metrics.
func (s *Server) handleModelMetrics(w http.ResponseWriter, r *http.Request) {
	task := scoring.Task(chi.URLParam(r, "task"))
	if !task.Valid() {
		http.Error(w, "unknown task", http.StatusBadRequest)
		return
	}

	m, err := s.manager.Metrics(r.Context(), task)
	if err != nil {
		s.logger.Error("model metrics failed", zap.String("task", string(task)), zap.Error(err))
		http.Error(w, "metrics unavailable", http.StatusBadGateway)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

type forecastRequest struct {
	DailyCounts []session.DailyCount `json:"daily_counts"`
	HorizonDays int                  `json:"horizon_days"`
	WindowDays  int                  `json:"window_days"`
}

// handleForecast handles POST /v1/forecast. The caller either supplies the
// daily series or lets the server read it from storage.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid forecast payload", http.StatusBadRequest)
		return
	}
	if req.HorizonDays <= 0 {
		req.HorizonDays = s.cfg.Forecast.DefaultHorizonDays
	}

	counts := req.DailyCounts
	if len(counts) == 0 {
		if s.counts == nil {
			http.Error(w, "no daily counts supplied and no storage configured", http.StatusBadRequest)
			return
		}
		windowDays := req.WindowDays
		if windowDays <= 0 {
			windowDays = 30
		}
		var err error
		counts, err = s.counts.DailyCounts(r.Context(), time.Now().AddDate(0, 0, -windowDays))
		if err != nil {
			s.logger.Error("failed to read daily counts", zap.Error(err))
			http.Error(w, "daily counts unavailable", http.StatusBadGateway)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, s.forecaster.Forecast(counts, req.HorizonDays))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
