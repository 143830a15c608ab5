package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// defaultLockTTL matches the CLUBFIN_BACKFILL_LOCK_TTL default. A crashed run
// frees the lock once it expires.
const defaultLockTTL = 2 * time.Hour

// Lock keeps two backfill runs from writing the same invoices and movements at
// once. Run releases it when every section has finished or failed.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// redisStore is the slice of the Redis client the run lock needs.
type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock stores a per-run token under key. Only the run that wrote the
// token deletes it, so a run whose lock expired mid-way cannot free the lock
// of the run that took over.
type RedisLock struct {
	client   redisStore
	key      string
	ttl      time.Duration
	runToken string
}

func NewRedisLock(client redisStore, key string, ttl time.Duration) (*RedisLock, error) {
	switch {
	case client == nil:
		return nil, errors.New("backfill lock: redis client required")
	case key == "":
		return nil, errors.New("backfill lock: key required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{client: client, key: key, ttl: ttl}, nil
}

// Acquire reports false when another run holds the key.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	won, err := l.client.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", l.key, err)
	}
	if won {
		l.runToken = token
	}
	return won, nil
}

func (l *RedisLock) Release(ctx context.Context) error {
	if l.runToken == "" {
		return nil
	}
	holder, err := l.client.Get(ctx, l.key)
	switch {
	case errors.Is(err, redis.Nil):
		// expired before the run finished
		l.runToken = ""
		return nil
	case err != nil:
		return fmt.Errorf("read %s holder: %w", l.key, err)
	}

	token := l.runToken
	l.runToken = ""
	if holder != token {
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("free %s: %w", l.key, err)
	}
	return nil
}

// NoopLock is used when Redis is not configured. The operator is trusted to
// start a single run.
type NoopLock struct{}

func (NoopLock) Acquire(context.Context) (bool, error) { return true, nil }

func (NoopLock) Release(context.Context) error { return nil }
