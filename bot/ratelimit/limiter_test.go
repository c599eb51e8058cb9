package ratelimit

import (
	"sync"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestAllowWithinCooldown(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l := New(DefaultCooldown, c.now)
	if !l.Allow(1) {
		t.Fatal("first action must pass")
	}
	c.advance(1499 * time.Millisecond)
	if l.Allow(1) {
		t.Fatal("second action inside cooldown must be denied")
	}
}

func TestAllowAtCooldownBoundary(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l := New(DefaultCooldown, c.now)
	if !l.Allow(1) {
		t.Fatal("first action must pass")
	}
	c.advance(1500 * time.Millisecond)
	if !l.Allow(1) {
		t.Fatal("action exactly one cooldown later must pass")
	}
}

func TestDeniedDoesNotExtendCooldown(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	l := New(DefaultCooldown, c.now)
	l.Allow(1)
	c.advance(time.Second)
	if l.Allow(1) {
		t.Fatal("expected deny")
	}
	c.advance(500 * time.Millisecond)
	if !l.Allow(1) {
		t.Fatal("cooldown counts from the last allowed action")
	}
}

func TestUsersAreIndependent(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	l := New(0, c.now)
	if l.Cooldown() != DefaultCooldown {
		t.Fatalf("Cooldown = %v", l.Cooldown())
	}
	if !l.Allow(1) || !l.Allow(2) {
		t.Fatal("different users must not share a cooldown")
	}
	if l.Len() != 2 {
		t.Fatalf("Len = %d", l.Len())
	}
}

func TestConcurrentAllowSingleWinner(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	l := New(DefaultCooldown, c.now)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow(9) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 1 {
		t.Fatalf("allowed = %d, want 1", allowed)
	}
}
