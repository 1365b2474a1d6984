package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRateLimitPrefix = "itou:ratelimit:"

// RedisRateLimiter counts requests per key in fixed windows shared by all
// instances
type RedisRateLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int64
	window    time.Duration
}

// NewRedisRateLimiter allows limit requests per key and window
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		keyPrefix: defaultRateLimitPrefix,
		limit:     int64(limit),
		window:    window,
	}
}

// Allow increments the counter of key and reports whether it is still
// within the limit. The window starts with the first request.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.keyPrefix + key

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to start rate window: %w", err)
		}
	}
	return n <= l.limit, nil
}
