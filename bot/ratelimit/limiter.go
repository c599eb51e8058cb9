// Package ratelimit enforces a per-user cooldown between actions.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum gap between two allowed actions of one user.
const DefaultCooldown = 1500 * time.Millisecond

// Limiter remembers the last allowed action per user. Entries live for the
// process lifetime.
type Limiter struct {
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last map[int64]time.Time
}

// New returns a limiter. A nil now uses time.Now; a non-positive cooldown
// uses DefaultCooldown.
func New(cooldown time.Duration, now func() time.Time) *Limiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Limiter{cooldown: cooldown, now: now, last: make(map[int64]time.Time)}
}

// Allow reports whether userID may act now and records the time when it may.
// Denied calls do not extend the cooldown.
func (l *Limiter) Allow(userID int64) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.last[userID]; ok && now.Sub(last) < l.cooldown {
		return false
	}
	l.last[userID] = now
	return true
}

// Cooldown returns the configured cooldown.
func (l *Limiter) Cooldown() time.Duration {
	return l.cooldown
}

// Len returns the number of tracked users.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
