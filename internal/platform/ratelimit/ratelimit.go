// Package ratelimit implements a fixed-window request limiter backed by
// Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return { count, ttl }
`)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts hits per key within a fixed window.
type Limiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

// New creates a Limiter. A nil client yields a limiter that admits everything.
func New(client *redis.Client, prefix string, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, max: max, window: window}
}

// Max returns the per-window limit.
func (l *Limiter) Max() int { return l.max }

// Allow records a hit for key. Redis failures are returned alongside an
// allowing result so callers can fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	if l.client == nil || l.max <= 0 {
		return Result{Allowed: true, Remaining: l.max}, nil
	}

	vals, err := fixedWindow.Run(ctx, l.client, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{Allowed: true, Remaining: l.max}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 2 {
		return Result{Allowed: true, Remaining: l.max}, fmt.Errorf("unexpected rate limit reply: %v", vals)
	}

	count, ttl := int(vals[0]), time.Duration(vals[1])*time.Millisecond
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	res := Result{Allowed: count <= l.max, Remaining: remaining}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res, nil
}
