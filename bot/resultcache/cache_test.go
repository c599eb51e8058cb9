package resultcache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m3rciful/wallbot/bot/catalog"
	"github.com/m3rciful/wallbot/bot/pexels"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var (
	key   = Key{Category: "Cute Pets", Device: catalog.Mobile, Page: 1}
	photo = pexels.Photo{PreviewURL: "https://p/l.jpg", OriginalURL: "https://p/o.jpg", Photographer: "Ana"}
)

func TestMemoryHitBeforeTTL(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	m := NewMemory(DefaultTTL, 0, c.now)
	ctx := context.Background()

	m.Set(ctx, key, photo)
	c.t = c.t.Add(299 * time.Second)
	got, ok := m.Get(ctx, key)
	if !ok || got != photo {
		t.Fatalf("Get at +299s = %+v, %v", got, ok)
	}
}

func TestMemoryMissAfterTTL(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	m := NewMemory(DefaultTTL, 0, c.now)
	ctx := context.Background()

	m.Set(ctx, key, photo)
	c.t = c.t.Add(301 * time.Second)
	if _, ok := m.Get(ctx, key); ok {
		t.Fatal("Get at +301s must miss")
	}
	if m.Len() != 0 {
		t.Fatalf("stale entry not evicted, Len = %d", m.Len())
	}
}

func TestMemoryKeysAreDistinct(t *testing.T) {
	m := NewMemory(0, 0, nil)
	ctx := context.Background()
	m.Set(ctx, key, photo)
	for _, k := range []Key{
		{Category: "Cute Pets", Device: catalog.Laptop, Page: 1},
		{Category: "Cute Pets", Device: catalog.Mobile, Page: 2},
		{Category: "Minimalist Zen", Device: catalog.Mobile, Page: 1},
	} {
		if _, ok := m.Get(ctx, k); ok {
			t.Fatalf("unexpected hit for %+v", k)
		}
	}
}

func TestMemoryOverwriteResetsAge(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	m := NewMemory(DefaultTTL, 0, c.now)
	ctx := context.Background()
	m.Set(ctx, key, photo)
	c.t = c.t.Add(200 * time.Second)
	newer := pexels.Photo{PreviewURL: "https://p/2.jpg", OriginalURL: "https://p/2o.jpg"}
	m.Set(ctx, key, newer)
	c.t = c.t.Add(200 * time.Second)
	if got, ok := m.Get(ctx, key); !ok || got != newer {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
}

func TestMemoryBounded(t *testing.T) {
	m := NewMemory(0, 2, nil)
	ctx := context.Background()
	for p := 1; p <= 3; p++ {
		m.Set(ctx, Key{Category: "x", Device: catalog.Mobile, Page: p}, photo)
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if _, ok := m.Get(ctx, Key{Category: "x", Device: catalog.Mobile, Page: 1}); ok {
		t.Fatal("oldest entry should have been evicted")
	}
}

func TestKeyString(t *testing.T) {
	if got := key.String(); got != "mobile:1:Cute Pets" {
		t.Fatalf("String = %q", got)
	}
}

func TestRedisUnavailableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := NewRedis(client, 0, "")
	if r.key(key) != "wallbot:photo:mobile:1:Cute Pets" {
		t.Fatalf("key = %q", r.key(key))
	}
	ctx := context.Background()
	r.Set(ctx, key, photo)
	if _, ok := r.Get(ctx, key); ok {
		t.Fatal("expected miss when redis is unreachable")
	}
}
