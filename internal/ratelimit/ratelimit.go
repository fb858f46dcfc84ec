package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// Limiter answers whether key may perform one more action.
type Limiter interface {
	Allow(ctx context.Context, key string, period time.Duration) (*Result, error)
}

type Result struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RedisLimiter is a GCRA limiter shared by every server instance.
type RedisLimiter struct {
	limiter *redis_rate.Limiter
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{limiter: redis_rate.NewLimiter(rdb)}
}

// Allow permits one action per period for key.
func (r *RedisLimiter) Allow(ctx context.Context, key string, period time.Duration) (*Result, error) {
	res, err := r.limiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   1,
		Period: period,
		Burst:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		RetryAfter: res.RetryAfter,
	}, nil
}
