package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ErrCodeRateLimited is returned when a client exceeds its request budget
const ErrCodeRateLimited = "ERR_RATE_LIMITED"

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter is a fixed-window in-process limiter for single instance runs
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
}

type client struct {
	count     int
	windowEnd time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, exists := rl.clients[key]
	if !exists || !now.Before(c.windowEnd) {
		rl.sweep(now)
		rl.clients[key] = &client{count: 1, windowEnd: now.Add(rl.window)}
		return true, nil
	}
	c.count++
	return c.count <= rl.limit, nil
}

// sweep drops expired windows. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, c := range rl.clients {
		if !now.Before(c.windowEnd) {
			delete(rl.clients, key)
		}
	}
}

// RateLimit throttles requests per client IP. Limiter errors let the
// request through.
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + ":" + c.ClientIP()

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString(RequestIDContextKey),
			))
			return
		}
		c.Next()
	}
}
