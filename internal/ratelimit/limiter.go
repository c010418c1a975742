// Package ratelimit implements fixed-window request limits stored in Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited = errors.New("rate limited")
	ErrUnavailable = errors.New("rate limiter unavailable")
)

// Limiter allows at most Max hits per key within Window
type Limiter struct {
	redis  *redis.Client
	prefix string
	max    int
	window time.Duration
}

// New creates a limiter. Keys are namespaced with prefix.
func New(client *redis.Client, prefix string, max int, window time.Duration) *Limiter {
	return &Limiter{
		redis:  client,
		prefix: prefix,
		max:    max,
		window: window,
	}
}

// Allow records a hit for identifier and returns ErrRateLimited once the window budget is spent
func (l *Limiter) Allow(ctx context.Context, identifier string) error {
	key := l.key(identifier)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count > int64(l.max) {
		return ErrRateLimited
	}

	return nil
}

// RetryAfter returns how long until identifier's window resets
func (l *Limiter) RetryAfter(ctx context.Context, identifier string) (time.Duration, error) {
	ttl, err := l.redis.TTL(ctx, l.key(identifier)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Reset clears the window for identifier
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	if err := l.redis.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (l *Limiter) key(identifier string) string {
	return l.prefix + ":" + strings.ToLower(identifier)
}
