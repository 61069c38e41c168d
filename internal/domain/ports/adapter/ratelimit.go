package adapter

import "context"

// RateLimiter answers whether one more request from the given identity fits
// inside the current fixed window. The check must be atomic with respect to
// concurrent callers sharing the identity.
type RateLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}
