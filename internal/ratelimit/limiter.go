// Package ratelimit provides per-IP request limiting, distributed over Redis
// when available with an in-memory token bucket fallback.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter checks per-IP request budgets. With a Redis client the budget is
// shared across replicas via a sliding window; without one, or when Redis
// errors, a local token bucket takes over so the API never hard-fails on
// limiter trouble.
type Limiter struct {
	redisLimiter *redis_rate.Limiter
	limitPerMin  int

	fallbackMu       sync.Mutex
	fallbackLimiters map[string]*rate.Limiter
}

// New creates a Limiter. client may be nil for in-memory only operation.
func New(client *redis.Client, limitPerMin int) *Limiter {
	l := &Limiter{
		limitPerMin:      limitPerMin,
		fallbackLimiters: make(map[string]*rate.Limiter),
	}

	if client != nil {
		l.redisLimiter = redis_rate.NewLimiter(client)
		slog.Info("Redis rate limiter initialized", "limit_per_min", limitPerMin)
	} else {
		slog.Info("Using in-memory rate limiting", "limit_per_min", limitPerMin)
	}

	go l.cleanupFallbackLimiters()

	return l
}

// AllowIP checks the per-minute budget for one client IP.
func (l *Limiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	key := fmt.Sprintf("ratelimit:ip:%s", ip)

	if l.redisLimiter != nil {
		result, err := l.allowRedis(ctx, key)
		if err != nil {
			slog.Warn("Redis rate limit check failed, using fallback", "ip", ip, "error", err)
			return l.allowFallback(key), nil
		}
		return result, nil
	}

	return l.allowFallback(key), nil
}

func (l *Limiter) allowRedis(ctx context.Context, key string) (*Result, error) {
	res, err := l.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   l.limitPerMin,
		Burst:  l.limitPerMin,
		Period: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

func (l *Limiter) allowFallback(key string) *Result {
	l.fallbackMu.Lock()
	limiter, ok := l.fallbackLimiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.limitPerMin)/60.0), l.limitPerMin)
		l.fallbackLimiters[key] = limiter
	}
	l.fallbackMu.Unlock()

	allowed := limiter.Allow()

	remaining := int(limiter.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     l.limitPerMin,
		Remaining: remaining,
		ResetAt:   time.Now().Add(time.Minute),
	}
	if !allowed {
		result.RetryAfter = time.Minute
	}
	return result
}

// cleanupFallbackLimiters bounds fallback map growth under IP churn.
func (l *Limiter) cleanupFallbackLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		l.fallbackMu.Lock()
		if len(l.fallbackLimiters) > 1000 {
			slog.Info("Resetting fallback rate limiters", "count", len(l.fallbackLimiters))
			l.fallbackLimiters = make(map[string]*rate.Limiter)
		}
		l.fallbackMu.Unlock()
	}
}
