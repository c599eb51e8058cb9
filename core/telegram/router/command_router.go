package router

import (
	"log/slog"
	"sort"

	"github.com/m3rciful/wallbot/core/logger"
	tg "github.com/m3rciful/wallbot/core/telegram"
	"github.com/m3rciful/wallbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped.
type CommandRouteOptions struct {
	OwnerID       int64
	OnOwnerReject tele.HandlerFunc
	// Before runs for every command ahead of the owner check.
	Before func(tele.Context)
}

// CommandRoutes builds one route per registered command, in name order.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	ownerOnly := middleware.OwnerOnly(middleware.OwnerOptions{
		OwnerID:  opts.OwnerID,
		OnReject: opts.OnOwnerReject,
	})

	names := make([]string, 0, len(reg.Commands()))
	for name := range reg.Commands() {
		names = append(names, name)
	}
	sort.Strings(names)

	routes := make([]tg.Route, 0, len(names))
	for _, name := range names {
		def := reg.Commands()[name]
		h := def.Handler
		if def.OwnerOnly {
			h = ownerOnly(h)
		}
		handlerName := "command." + normalizeHandlerName(name)
		wrapped := h
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler: func(c tele.Context) error {
				if opts.Before != nil {
					opts.Before(c)
				}
				return handleWithSummary(c, handlerName, func() error { return wrapped(c) })
			},
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(names)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}
