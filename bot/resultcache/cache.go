// Package resultcache remembers search results per (category, device, page)
// for a fixed TTL.
package resultcache

import (
	"context"
	"strconv"
	"time"

	"github.com/m3rciful/wallbot/bot/catalog"
	"github.com/m3rciful/wallbot/bot/pexels"
)

// DefaultTTL is how long a cached photo is served without a new search.
const DefaultTTL = 300 * time.Second

// Key identifies one page of one category for one device.
type Key struct {
	Category string
	Device   catalog.Device
	Page     int
}

func (k Key) String() string {
	return string(k.Device) + ":" + strconv.Itoa(k.Page) + ":" + k.Category
}

// Cache stores photos by key. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the photo stored for k if it is younger than the TTL.
	Get(ctx context.Context, k Key) (pexels.Photo, bool)
	// Set stores p for k, replacing any previous entry.
	Set(ctx context.Context, k Key, p pexels.Photo)
}
