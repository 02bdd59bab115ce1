// cmd/insightd/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/foliometry/insight/internal/api"
	"github.com/foliometry/insight/internal/config"
	"github.com/foliometry/insight/internal/forecast"
	"github.com/foliometry/insight/internal/metrics"
	"github.com/foliometry/insight/internal/predictor"
	"github.com/foliometry/insight/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Getenv("INSIGHT_CONFIG"))
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	m := metrics.New()

	// Storage is optional: without it the engine runs heuristics-only and
	// every prediction degrades to its fallback.
	var (
		history predictor.HistoryStore
		models  predictor.ModelStore
		counts  api.DailyCountSource
	)
	pg, err := store.NewPostgres(cfg.Database, logger)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = pg.Ping(ctx)
		if err == nil {
			err = pg.CreateTables(ctx)
		}
		cancel()
	}
	if err != nil {
		if pg != nil {
			_ = pg.Close()
		}
		logger.Warn("storage unavailable, running heuristics-only", zap.Error(err))
	} else {
		defer func() { _ = pg.Close() }()
		history, models, counts = pg, pg, pg
		logger.Info("storage connected",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database))
	}

	manager := predictor.NewManager(predictor.Config{
		MinTrainingSamples: cfg.Models.MinTrainingSamples,
		MinChurnVisitors:   cfg.Models.MinChurnVisitors,
		HoldoutFraction:    cfg.Models.HoldoutFraction,
		MetricsWindowDays:  cfg.Models.MetricsWindowDays,
		Epochs:             cfg.Models.Epochs,
		LearningRate:       cfg.Models.LearningRate,
	}, history, models, m, logger)

	if models != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := manager.LoadPersisted(ctx); err != nil {
			logger.Warn("failed to load persisted models", zap.Error(err))
		}
		cancel()
	}

	server := api.NewServer(cfg, manager, forecast.NewEngine(logger), history, counts, m, logger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
