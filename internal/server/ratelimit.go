// Package server exposes the HTTP interface: the admin model-list
// endpoint, blueprint generation, health, and metrics.
package server

import (
	"math/rand"
	"sync"
	"time"
)

const sweepProbability = 0.10

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

type windowEntry struct {
	count       int
	windowStart time.Time
}

// FixedWindowLimiter enforces a fixed-window request limit per client
// identifier. Expired entries are swept probabilistically on check calls
// rather than by a background timer, amortizing cleanup across traffic.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry

	max    int
	window time.Duration

	now       func() time.Time
	randFloat func() float64
}

// NewFixedWindowLimiter creates a limiter allowing max requests per
// window per client.
func NewFixedWindowLimiter(max int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		entries:   make(map[string]*windowEntry),
		max:       max,
		window:    window,
		now:       time.Now,
		randFloat: rand.Float64,
	}
}

// Check records a request for the client and reports whether it is
// allowed, how many requests remain in the current window, and when the
// window resets.
func (l *FixedWindowLimiter) Check(clientID string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.randFloat() < sweepProbability {
		l.sweep(now)
	}

	entry, ok := l.entries[clientID]
	if !ok || now.Sub(entry.windowStart) >= l.window {
		l.entries[clientID] = &windowEntry{count: 1, windowStart: now}
		return Decision{
			Allowed:   true,
			Remaining: l.max - 1,
			ResetTime: now.Add(l.window),
		}
	}

	reset := entry.windowStart.Add(l.window)
	if entry.count >= l.max {
		return Decision{Allowed: false, Remaining: 0, ResetTime: reset}
	}

	entry.count++
	return Decision{
		Allowed:   true,
		Remaining: l.max - entry.count,
		ResetTime: reset,
	}
}

// sweep removes expired windows. Caller holds the lock.
func (l *FixedWindowLimiter) sweep(now time.Time) {
	for id, entry := range l.entries {
		if now.Sub(entry.windowStart) >= l.window {
			delete(l.entries, id)
		}
	}
}
