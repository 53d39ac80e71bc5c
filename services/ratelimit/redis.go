// Package ratelimit counts hits per key over fixed windows, in Redis or in process.
package ratelimit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/academia/core"
)

const keyPrefix = "rl:"

type RedisLimiter struct {
	client *redis.Client
}

var _ core.RateLimiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// NewLimiter connects to the configured Redis. Without Redis settings hits are counted in process.
func NewLimiter(conf core.RedisConfig) (core.RateLimiter, error) {
	var opt *redis.Options
	switch {
	case conf.URL != "":
		var err error
		if opt, err = redis.ParseURL(conf.URL); err != nil {
			return nil, errors.Wrap(err, "parsing redis url")
		}
	case conf.Addr != "":
		opt = &redis.Options{Addr: conf.Addr, Password: conf.Password}
	default:
		return NewMemoryLimiter(), nil
	}
	return NewRedisLimiter(redis.NewClient(opt)), nil
}

// Allow increments the counter of key. The window starts with the first hit.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, keyPrefix+key)
	pipe.ExpireNX(ctx, keyPrefix+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, errors.Wrap(err, "counting hit")
	}
	return incr.Val() <= limit, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return errors.Wrap(l.client.Del(ctx, keyPrefix+key).Err(), "resetting counter")
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
