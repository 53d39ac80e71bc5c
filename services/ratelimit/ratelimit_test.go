package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	defer func() { core.NowFunc = time.Now }()

	l := NewMemoryLimiter()
	allow := func(key string) bool {
		ok, err := l.Allow(ctx, key, 2, time.Minute)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, allow("login:ana"))
	assert.True(t, allow("login:ana"))
	assert.False(t, allow("login:ana"))
	assert.True(t, allow("login:bia"), "keys are counted apart")

	now = now.Add(time.Minute)
	assert.True(t, allow("login:ana"), "a new window starts")

	assert.True(t, allow("login:ana"))
	assert.False(t, allow("login:ana"))
	require.NoError(t, l.Reset(ctx, "login:ana"))
	assert.True(t, allow("login:ana"))
}

func TestNewLimiter(t *testing.T) {
	l, err := NewLimiter(core.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryLimiter{}, l)

	l, err = NewLimiter(core.RedisConfig{Addr: "localhost:6379"})
	require.NoError(t, err)
	assert.IsType(t, &RedisLimiter{}, l)

	_, err = NewLimiter(core.RedisConfig{URL: "://nope"})
	assert.Error(t, err)
}
