package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidArgument   = errors.New("invalid argument")
)
