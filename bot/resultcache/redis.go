package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m3rciful/wallbot/bot/pexels"
	"github.com/m3rciful/wallbot/core/logger"
)

// DefaultRedisPrefix namespaces cache keys.
const DefaultRedisPrefix = "wallbot:photo:"

// Redis shares cached photos between bot instances. Expiry is delegated to
// Redis. Errors are logged and treated as a miss.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// NewRedis wraps client. Zero ttl and empty prefix select the defaults.
func NewRedis(client redis.UniversalClient, ttl time.Duration, prefix string) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, ttl: ttl, prefix: prefix, log: logger.Component("cache")}
}

func (r *Redis) key(k Key) string {
	return r.prefix + k.String()
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, k Key) (pexels.Photo, bool) {
	raw, err := r.client.Get(ctx, r.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return pexels.Photo{}, false
	}
	if err != nil {
		logger.LogEvent(ctx, r.log, slog.LevelWarn, "cache.get",
			slog.String("status", "fail"),
			slog.String("driver", "redis"),
			slog.String("err", err.Error()),
		)
		return pexels.Photo{}, false
	}
	var p pexels.Photo
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.LogEvent(ctx, r.log, slog.LevelWarn, "cache.decode",
			slog.String("status", "fail"),
			slog.String("driver", "redis"),
			slog.String("err", err.Error()),
		)
		return pexels.Photo{}, false
	}
	return p, true
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, k Key, p pexels.Photo) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key(k), data, r.ttl).Err(); err != nil {
		logger.LogEvent(ctx, r.log, slog.LevelWarn, "cache.set",
			slog.String("status", "fail"),
			slog.String("driver", "redis"),
			slog.String("err", err.Error()),
		)
	}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
