// Package app assembles the wallpaper bot from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/m3rciful/wallbot/bot/catalog"
	"github.com/m3rciful/wallbot/bot/config"
	"github.com/m3rciful/wallbot/bot/handlers"
	"github.com/m3rciful/wallbot/bot/metrics"
	"github.com/m3rciful/wallbot/bot/pexels"
	"github.com/m3rciful/wallbot/bot/ratelimit"
	"github.com/m3rciful/wallbot/bot/resultcache"
	"github.com/m3rciful/wallbot/bot/status"
	"github.com/m3rciful/wallbot/bot/usage"
	"github.com/m3rciful/wallbot/core/bootstrap"
	corecmd "github.com/m3rciful/wallbot/core/cmd"
	"github.com/m3rciful/wallbot/core/logger"
	tg "github.com/m3rciful/wallbot/core/telegram"
)

const shutdownTimeout = 5 * time.Second

// App owns the long-lived components of the bot.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	redis    *redis.Client
	registry *tg.Registry
	handlers *handlers.Handlers
	status   *status.Server
	log      *slog.Logger
}

// Bootstrap prepares infrastructure for the loaded configuration and
// returns the application. It matches corecmd.Options.Bootstrap.
func Bootstrap(ctx context.Context, carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	cat := catalog.Default()
	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Modules: bootstrap.Modules{
			Seeders: []bootstrap.Seeder{usage.Seeder(cat.Terms())},
		},
	})
	if err != nil {
		return nil, err
	}
	a, err := New(ctx, cfg, res.DB)
	if err != nil {
		_ = res.DB.Close()
		return nil, err
	}
	return a, nil
}

// New wires the bot components around an open database.
func New(ctx context.Context, cfg *config.Config, db *sqlx.DB) (*App, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("app: config and database are required")
	}
	a := &App{
		cfg:      cfg,
		db:       db,
		registry: tg.NewRegistry(),
		log:      logger.Component("app"),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	cache := a.buildCache(ctx)
	tracker := usage.NewTracker(db)
	cat := catalog.Default()

	h, err := handlers.New(handlers.Deps{
		Catalog: cat,
		Limiter: ratelimit.New(cfg.Cooldown(), nil),
		Cache:   cache,
		Searcher: pexels.New(pexels.Options{
			APIKey:        cfg.Pexels.APIKey,
			BaseURL:       cfg.Pexels.BaseURL,
			Timeout:       cfg.SearchTimeout(),
			RatePerSecond: cfg.Pexels.RatePerSecond,
			Metrics:       m,
		}),
		Tracker:      tracker,
		Metrics:      m,
		OwnerID:      cfg.Telegram.OwnerID,
		DeveloperURL: cfg.DeveloperURL(),
	})
	if err != nil {
		return nil, err
	}
	if err := h.Register(a.registry); err != nil {
		return nil, fmt.Errorf("app: register handlers: %w", err)
	}
	a.handlers = h

	a.status = status.New(status.Options{
		Listen:   cfg.Status.Listen,
		Stats:    tracker,
		Ping:     db.PingContext,
		Gatherer: reg,
		Metrics:  m,
	})

	a.log.Info("app.wired",
		slog.String("cache", cfg.Cache.Driver),
		slog.String("db", cfg.Database.Driver),
		slog.Int("categories", cat.Len()),
		slog.Duration("cooldown", cfg.Cooldown()),
		slog.Duration("cache_ttl", cfg.CacheTTL()),
	)
	return a, nil
}

// buildCache returns the configured result cache. An unreachable Redis is
// logged but not fatal: its lookups degrade to misses.
func (a *App) buildCache(ctx context.Context) resultcache.Cache {
	cfg := a.cfg.Cache
	if cfg.Driver != config.CacheRedis {
		return resultcache.NewMemory(a.cfg.CacheTTL(), cfg.MaxEntries, nil)
	}
	a.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rc := resultcache.NewRedis(a.redis, a.cfg.CacheTTL(), cfg.Redis.Prefix)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.LogEvent(ctx, logger.Component("cache"), slog.LevelWarn, "cache.redis.ping",
			slog.String("status", "fail"),
			slog.String("addr", cfg.Redis.Addr),
			slog.String("err", err.Error()),
		)
	}
	return rc
}

// TelegramRunOptions implements corecmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(),
		Routes:      a.handlers.Routes(a.registry),
		OnStart: func(context.Context, tg.Runtime) error {
			return a.status.Start()
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			return a.Close(ctx)
		},
	}, nil
}

// Close stops the status server and releases the cache and database.
func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.status.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("status shutdown: %w", err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}
	return errors.Join(errs...)
}
