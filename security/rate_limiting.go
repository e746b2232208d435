package security

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a Redis-backed fixed-window request limiter.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{redis: redisClient, limit: limit, window: window}
}

// Allow counts one request against the window for a key.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := r.redis.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		r.redis.Expire(ctx, windowKey, r.window)
	}

	return count <= int64(r.limit), nil
}

// PurchaseLimit is a route middleware that throttles purchase attempts per
// client IP. The limiter fails open: a Redis outage must not block sales.
func (r *RateLimiter) PurchaseLimit() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		allowed, err := r.Allow(e.Request.Context(), "buy:"+e.RealIP())
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err)
			return e.Next()
		}
		if !allowed {
			return e.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}
		return e.Next()
	}
}
