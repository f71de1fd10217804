// Package middleware provides the HTTP middleware shared by every route:
// session authentication, rate limiting, request logging, metrics and tracing.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// ErrNoLimiterStore is returned when rate limiting is enforced without a Redis client.
var ErrNoLimiterStore = errors.New("rate limit store unavailable")

// RateLimitPolicy describes one named bucket.
type RateLimitPolicy struct {
	Name   string
	Limit  int
	Window time.Duration
	OnFail FailPolicy
}

// Limiter enforces fixed-window rate limits backed by Redis.
type Limiter struct {
	rdb *redis.Client
	// Enabled is false in test/development so local workflows are not throttled.
	Enabled bool
}

// NewLimiter builds a limiter. Limits are enforced outside test, development and stress environments.
func NewLimiter(rdb *redis.Client, env string) *Limiter {
	switch env {
	case "", "test", "development", "stress":
		return &Limiter{rdb: rdb, Enabled: false}
	}
	return &Limiter{rdb: rdb, Enabled: true}
}

// Allow increments the counter for (resource, id) and reports whether the
// request is within limit, together with the remaining budget.
func (l *Limiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, int, error) {
	if !l.Enabled {
		return true, limit, nil
	}
	if l.rdb == nil {
		return false, 0, ErrNoLimiterStore
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		RedisErrors.WithLabelValues("incr").Inc()
		return false, 0, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			RedisErrors.WithLabelValues("expire").Inc()
		}
	}

	remaining := limit - int(cnt)
	if remaining < 0 {
		remaining = 0
	}
	return cnt <= int64(limit), remaining, nil
}

// Handler returns a Fiber middleware enforcing the policy.
// It keys by authenticated userID (if set in c.Locals("userID")) otherwise by remote IP.
func (l *Limiter) Handler(p RateLimitPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		} else {
			id = "ip:" + c.IP()
		}

		resource := p.Name
		if resource == "" {
			resource = c.Path()
		}

		allowed, remaining, err := l.Allow(c.UserContext(), resource, id, p.Limit, p.Window)
		if err != nil {
			if p.OnFail == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit fail-closed",
					"resource", resource, "path", c.Path(), "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"message": "Rate limit unavailable",
				})
			}
			return c.Next()
		}

		if l.Enabled {
			c.Set("X-RateLimit-Limit", strconv.Itoa(p.Limit))
			c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(p.Window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Rate limit exceeded",
			})
		}
		return c.Next()
	}
}
