package redis

import (
	"context"
	"fmt"
	"time"

	"ragchat-storage/internal/domain/ports/adapter"
)

var _ adapter.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a fixed-window counter shared across instances. The
// check-then-increment must be atomic under concurrency, so the whole
// decision rides on a single INCR: the post-increment value is compared
// against the ceiling, and the window expiry is set only when the INCR
// created the key.
type RateLimiter struct {
	client RedisClient
	limit  int
	window time.Duration
}

func NewRateLimiter(client RedisClient, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

func (r *RateLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := rateLimitKey(userID)
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	if count > int64(r.limit) {
		return false, nil
	}

	return true, nil
}

func rateLimitKey(userID string) string {
	return "rate_limit:" + userID
}
