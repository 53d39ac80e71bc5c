package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/academia/core"
)

type counter struct {
	hits    int64
	expires time.Time
}

// MemoryLimiter keeps the counters in process. Counters are not shared between instances.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*counter
}

var _ core.RateLimiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{counters: make(map[string]*counter)}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int64, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := core.NowFunc()
	c, ok := l.counters[key]
	if !ok || !now.Before(c.expires) {
		c = &counter{expires: now.Add(window)}
		l.counters[key] = c
	}
	c.hits++
	return c.hits <= limit, nil
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.counters, key)
	l.mu.Unlock()
	return nil
}
