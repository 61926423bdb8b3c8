package db

import (
	"context"
	"fmt"
	"time"

	"kam_backend/platform/config"
	"kam_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectAttempts  = 5
	connectBaseDelay = 2 * time.Second
)

// Retry calls fn up to attempts times, sleeping attempt² × baseDelay between
// failures. It stops early when ctx is done.
func Retry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*attempt) * baseDelay):
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}

// Connect opens the pool, retrying while Postgres comes up, and optionally
// applies migrations. Used by the api and scheduler entrypoints.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger, migrate bool) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := Retry(ctx, log, "database connection", connectAttempts, connectBaseDelay, func() error {
		p, err := NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("database connection established")

	if !migrate {
		return pool, nil
	}
	err = Retry(ctx, log, "database migrations", connectAttempts, connectBaseDelay, func() error {
		return RunMigrations(ctx, pool)
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("database migrations complete")
	return pool, nil
}
