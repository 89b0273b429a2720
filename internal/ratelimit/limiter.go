// Package ratelimit throttles requests per client key with token buckets
// and records each decision in a stats store.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed bool
	// RetryAfter is returned to rejected clients in the Retry-After header.
	RetryAfter time.Duration
}

// Limiter keeps one token bucket per key and forgets keys idle longer than idleTTL.
type Limiter struct {
	mu         sync.Mutex
	entries    map[string]*entry
	rps        rate.Limit
	burst      int
	idleTTL    time.Duration
	retryAfter time.Duration
	now        func() time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithIdleTTL sets how long an unused key is remembered.
func WithIdleTTL(d time.Duration) Option {
	return func(l *Limiter) { l.idleTTL = d }
}

// WithRetryAfter overrides the Retry-After hint, which defaults to one token interval.
func WithRetryAfter(d time.Duration) Option {
	return func(l *Limiter) { l.retryAfter = d }
}

func NewLimiter(rps float64, burst int, opts ...Option) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
	if rps > 0 {
		l.retryAfter = time.Duration(math.Ceil(1/rps)) * time.Second
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.retryAfter <= 0 {
		l.retryAfter = time.Second
	}
	return l
}

func (l *Limiter) RPS() float64 { return float64(l.rps) }
func (l *Limiter) Burst() int   { return l.burst }

// Allow consumes a token from key's bucket.
func (l *Limiter) Allow(key string) Decision {
	now := l.now()

	l.mu.Lock()
	ent, ok := l.entries[key]
	if !ok {
		ent = &entry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.entries[key] = ent
	}
	ent.lastSeen = now
	l.mu.Unlock()

	if ent.lim.AllowN(now, 1) {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, RetryAfter: l.retryAfter}
}

// Cleanup drops keys idle longer than idleTTL.
func (l *Limiter) Cleanup() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (l *Limiter) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
