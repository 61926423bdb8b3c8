// Package lock provides short-lived distributed mutual exclusion on Redis.
// This is part of the platform layer and contains no business logic.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL        = 10 * time.Second
	defaultRetryEvery = 50 * time.Millisecond
)

// ErrNotObtained is returned when the key stayed locked for the whole retry window.
var ErrNotObtained = errors.New("lock not obtained")

// Release gives a held lock back. It is safe to call more than once.
type Release func(ctx context.Context) error

// Locker serializes work on a key across processes.
type Locker interface {
	Obtain(ctx context.Context, key string) (Release, error)
}

// RedisLocker is a Locker backed by redislock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedisLocker creates a locker that holds keys for ttl and retries with a
// linear backoff until roughly one ttl has elapsed.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	attempts := int(ttl / defaultRetryEvery)
	if attempts < 1 {
		attempts = 1
	}

	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(defaultRetryEvery), attempts),
	}
}

// Obtain takes the lock for key. The returned Release must be called when done.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (Release, error) {
	held, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		err := held.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return nil
		}
		return err
	}, nil
}

// NoopLocker grants every request immediately. Used when Redis is not configured.
type NoopLocker struct{}

func (NoopLocker) Obtain(context.Context, string) (Release, error) {
	return func(context.Context) error { return nil }, nil
}

var (
	_ Locker = (*RedisLocker)(nil)
	_ Locker = NoopLocker{}
)
