// Package config holds the wallbot configuration on top of the core settings.
package config

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/wallbot/core/config"
	coredatabase "github.com/m3rciful/wallbot/core/database"
)

const (
	// CacheMemory keeps results in process.
	CacheMemory = "memory"
	// CacheRedis shares results through Redis.
	CacheRedis = "redis"

	DefaultCacheTTLSeconds      = 300
	DefaultCacheMaxEntries      = 4096
	DefaultSearchTimeoutSeconds = 10
)

// PexelsConfig configures the image search client.
type PexelsConfig struct {
	APIKey         string  `yaml:"api_key" envconfig:"PEXELS_API_KEY" validate:"required"`
	BaseURL        string  `yaml:"base_url" envconfig:"PEXELS_BASE_URL" validate:"omitempty,url"`
	TimeoutSeconds int     `yaml:"timeout_seconds" envconfig:"PEXELS_TIMEOUT_SECONDS" validate:"gte=0"`
	RatePerSecond  float64 `yaml:"rate_per_second" envconfig:"PEXELS_RATE_PER_SECOND" validate:"gte=0"`
}

// BotConfig holds presentation settings.
type BotConfig struct {
	// DeveloperUser is the developer's Telegram handle, with or without "@".
	DeveloperUser string `yaml:"developer_user" envconfig:"DEVELOPER_USER" validate:"required"`
}

// RedisConfig locates the Redis server used by the redis cache driver.
type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
	Prefix   string `yaml:"prefix" envconfig:"REDIS_PREFIX"`
}

// CacheConfig configures the search result cache.
type CacheConfig struct {
	Driver     string      `yaml:"driver" envconfig:"CACHE_DRIVER" validate:"omitempty,oneof=memory redis"`
	TTLSeconds int         `yaml:"ttl_seconds" envconfig:"CACHE_TTL_SECONDS" validate:"gte=0"`
	MaxEntries int         `yaml:"max_entries" envconfig:"CACHE_MAX_ENTRIES" validate:"gte=0"`
	Redis      RedisConfig `yaml:"redis"`
}

// StatusConfig configures the HTTP status server. An empty Listen disables it.
type StatusConfig struct {
	Listen string `yaml:"listen" envconfig:"STATUS_LISTEN"`
}

// Config is the full bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Bot      BotConfig           `yaml:"bot"`
	Pexels   PexelsConfig        `yaml:"pexels"`
	Cache    CacheConfig         `yaml:"cache"`
	Database coredatabase.Config `yaml:"database"`
	Status   StatusConfig        `yaml:"status"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Load reads path and the environment, fills defaults and validates. Any
// missing secret is an error.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := coreconfig.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize fills defaults for every section.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.Database.Normalize(); err != nil {
		return err
	}

	c.Bot.DeveloperUser = strings.TrimSpace(c.Bot.DeveloperUser)

	if c.Pexels.TimeoutSeconds == 0 {
		c.Pexels.TimeoutSeconds = DefaultSearchTimeoutSeconds
	}

	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheMemory
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = DefaultCacheTTLSeconds
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if c.Cache.Driver == CacheRedis && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return fmt.Errorf("cache.redis.addr is required when cache.driver is 'redis'")
	}
	return nil
}

// Cooldown returns the per-user rate limit cooldown.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.RateLimit.CooldownMS) * time.Millisecond
}

// CacheTTL returns the result cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// SearchTimeout returns the image search timeout.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Pexels.TimeoutSeconds) * time.Second
}

// DeveloperURL returns the t.me link for the developer handle.
func (c *Config) DeveloperURL() string {
	return "https://t.me/" + strings.TrimPrefix(c.Bot.DeveloperUser, "@")
}
