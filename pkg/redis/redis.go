package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/review-guard/pkg/config"
)

const (
	connectTimeout = 5 * time.Second
	opTimeout      = 500 * time.Millisecond
)

// Client is the shared Redis connection used by the predictor cache and the rate limiter
type Client struct {
	*redis.Client
}

// NewRedisClient connects and pings Redis. Reads and writes are bounded by short
// timeouts so a slow cache never stalls scoring.
func NewRedisClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  connectTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis at %s: %w", cfg.RedisAddr(), err)
	}

	return &Client{Client: client}, nil
}

// GetString reads key. A missing key yields an error for which IsMiss is true.
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	return c.Get(ctx, key).Result()
}

// SetWithExpiration writes key with a TTL
func (c *Client) SetWithExpiration(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Set(ctx, key, value, ttl).Err()
}

// IsMiss reports whether err means the key was absent
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
