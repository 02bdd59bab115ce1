// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/foliometry/insight/internal/config"
)

// Postgres backs the engine's two storage collaborators: the historical
// session query capability and the durable model store. It is opened once
// at boot and closed on shutdown.
type Postgres struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgres opens a connection pool against the configured database.
func NewPostgres(cfg config.DatabaseConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Postgres{db: db, logger: logger}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Ping verifies the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// CreateTables creates the tables this engine reads and writes. The
// sessions table is populated by the tracking layer; it is created here so
// a fresh deployment works end to end.
func (p *Postgres) CreateTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(255) PRIMARY KEY,
			visitor_id VARCHAR(255),
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			pages_viewed INT NOT NULL DEFAULT 0,
			clicks INT NOT NULL DEFAULT 0,
			scroll_depth DOUBLE PRECISION NOT NULL DEFAULT 0,
			time_on_page JSONB NOT NULL DEFAULT '[]',
			page_journey JSONB NOT NULL DEFAULT '[]',
			referrer TEXT NOT NULL DEFAULT '',
			campaign TEXT NOT NULL DEFAULT '',
			medium TEXT NOT NULL DEFAULT '',
			is_mobile BOOLEAN NOT NULL DEFAULT FALSE,
			is_tablet BOOLEAN NOT NULL DEFAULT FALSE,
			os TEXT NOT NULL DEFAULT '',
			converted BOOLEAN NOT NULL DEFAULT FALSE,
			conversion_value DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions (start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_visitor ON sessions (visitor_id)`,
		`CREATE TABLE IF NOT EXISTS models (
			task VARCHAR(64) PRIMARY KEY,
			payload JSONB NOT NULL,
			sample_count INT NOT NULL,
			trained_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, query := range queries {
		if _, err := p.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
