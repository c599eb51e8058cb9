package resultcache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/m3rciful/wallbot/bot/pexels"
)

// DefaultMaxEntries bounds the in-process cache.
const DefaultMaxEntries = 4096

type entry struct {
	photo      pexels.Photo
	insertedAt time.Time
}

// Memory is an in-process cache bounded by an LRU. Stale entries are removed
// when looked up.
type Memory struct {
	ttl   time.Duration
	now   func() time.Time
	items *lru.Cache[Key, entry]
}

// NewMemory returns a cache holding at most maxEntries photos for ttl each.
// Zero values select the defaults; a nil now uses time.Now.
func NewMemory(ttl time.Duration, maxEntries int, now func() time.Time) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if now == nil {
		now = time.Now
	}
	items, err := lru.New[Key, entry](maxEntries)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &Memory{ttl: ttl, now: now, items: items}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, k Key) (pexels.Photo, bool) {
	e, ok := m.items.Get(k)
	if !ok {
		return pexels.Photo{}, false
	}
	if m.now().Sub(e.insertedAt) >= m.ttl {
		m.items.Remove(k)
		return pexels.Photo{}, false
	}
	return e.photo, true
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, k Key, p pexels.Photo) {
	m.items.Add(k, entry{photo: p, insertedAt: m.now()})
}

// Len returns the number of stored entries, stale ones included.
func (m *Memory) Len() int {
	return m.items.Len()
}
