package core

import (
	"context"
	"time"
)

// RateLimiter counts hits per key over a fixed window.
type RateLimiter interface {
	// Allow records a hit and reports whether key is still within limit for the current window.
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}
