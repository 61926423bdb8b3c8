// Package db opens the Postgres pool backing leads, contacts, interactions
// and orders, and applies the embedded migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"kam_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns   = 25
	defaultMinConns   = 5
	connLifetime      = time.Hour
	connIdleTime      = 30 * time.Minute
	healthCheckPeriod = time.Minute
)

// NewPool parses the database URL, applies pool sizing and verifies the
// connection before returning.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	maxConns, minConns := poolSize(cfg.GetDatabaseMaxConns(), cfg.GetDatabaseMinConns())
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = connLifetime
	poolConfig.MaxConnIdleTime = connIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// poolSize falls back to defaults for unset values and keeps min <= max.
func poolSize(maxConns, minConns int) (int32, int32) {
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	if minConns < 0 {
		minConns = defaultMinConns
	}
	if minConns > maxConns {
		minConns = maxConns
	}
	return int32(maxConns), int32(minConns)
}
