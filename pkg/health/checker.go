package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// CheckerConfig controls how long each probe may take
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns the default probe configuration
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{Timeout: 2 * time.Second}
}

// Pinger is anything that can report its own liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseChecker returns a health check function for the PostgreSQL pool
func DatabaseChecker(pool *pgxpool.Pool, cfg CheckerConfig) func(ctx context.Context) error {
	return PingChecker(pool, cfg)
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client redis.UniversalClient, cfg CheckerConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, cfg)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}

// PingChecker wraps any Pinger (predictor, event bus) as a health check
func PingChecker(p Pinger, cfg CheckerConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := withTimeout(ctx, cfg)
		defer cancel()
		return p.Ping(ctx)
	}
}

func withTimeout(ctx context.Context, cfg CheckerConfig) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}
