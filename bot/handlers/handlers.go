// Package handlers routes /start and inline button presses through the
// wallpaper menus and delivers photos.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/wallbot/bot/action"
	"github.com/m3rciful/wallbot/bot/catalog"
	"github.com/m3rciful/wallbot/bot/metrics"
	"github.com/m3rciful/wallbot/bot/pexels"
	"github.com/m3rciful/wallbot/bot/resultcache"
	"github.com/m3rciful/wallbot/bot/usage"
	"github.com/m3rciful/wallbot/core/logger"
	tg "github.com/m3rciful/wallbot/core/telegram"
	"github.com/m3rciful/wallbot/core/telegram/callbacks"
	"github.com/m3rciful/wallbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/wallbot/core/telegram/helpers"
	"github.com/m3rciful/wallbot/core/telegram/middleware"
	"github.com/m3rciful/wallbot/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// Searcher finds one photo for a query.
type Searcher interface {
	Search(ctx context.Context, q pexels.Query) (pexels.Photo, bool)
}

// Tracker records users and download attempts.
type Tracker interface {
	RegisterUserIfAbsent(ctx context.Context, u usage.User) (bool, error)
	IncrementCategoryCount(ctx context.Context, category string) error
	Summary(ctx context.Context) (usage.Summary, error)
}

// Deps are the collaborators of Handlers. Metrics and Now are optional.
type Deps struct {
	Catalog      *catalog.Catalog
	Limiter      middleware.Limiter
	Cache        resultcache.Cache
	Searcher     Searcher
	Tracker      Tracker
	Metrics      *metrics.Metrics
	OwnerID      int64
	DeveloperURL string
	Now          func() time.Time
}

// Handlers holds the bot's update handlers.
type Handlers struct {
	cat      *catalog.Catalog
	codec    *action.Codec
	cache    resultcache.Cache
	search   Searcher
	tracker  Tracker
	metrics  *metrics.Metrics
	ownerID  int64
	devURL   string
	now      func() time.Time
	log      *slog.Logger
	limit    tele.MiddlewareFunc
	ownerMW  tele.MiddlewareFunc
	callback map[action.Verb]func(tele.Context, action.Action) error
}

// New validates deps and returns Handlers.
func New(d Deps) (*Handlers, error) {
	switch {
	case d.Catalog == nil:
		return nil, errors.New("handlers: nil catalog")
	case d.Cache == nil:
		return nil, errors.New("handlers: nil cache")
	case d.Searcher == nil:
		return nil, errors.New("handlers: nil searcher")
	case d.Tracker == nil:
		return nil, errors.New("handlers: nil tracker")
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &Handlers{
		cat:     d.Catalog,
		codec:   action.NewCodec(d.Catalog),
		cache:   d.Cache,
		search:  d.Searcher,
		tracker: d.Tracker,
		metrics: d.Metrics,
		ownerID: d.OwnerID,
		devURL:  d.DeveloperURL,
		now:     d.Now,
		log:     logger.Component("router"),
	}
	h.limit = middleware.RateLimit(middleware.RateLimitOptions{
		Limiter: d.Limiter,
		OnLimited: func(c tele.Context) error {
			h.metrics.Limited()
			tghelpers.SetOutcome(c, "rate_limited")
			return nil
		},
	})
	h.ownerMW = middleware.OwnerOnly(middleware.OwnerOptions{
		OwnerID: d.OwnerID,
		OnReject: func(c tele.Context) error {
			tghelpers.SetOutcome(c, "ignored")
			return nil
		},
	})
	h.callback = map[action.Verb]func(tele.Context, action.Action) error{
		action.ChooseDevice:   h.onCategories,
		action.ListCategories: h.onCategories,
		action.FetchImage:     h.onFetch,
		action.GoBack:         h.onBack,
		action.AdminPanel:     h.onAdmin,
	}
	return h, nil
}

// Register adds the /start command and one callback per action verb.
func (h *Handlers) Register(reg *tg.Registry) error {
	if err := reg.RegisterCommand("/start", commands.Command{
		Handler:     h.onStart,
		Description: "Choose a device and browse wallpapers",
	}); err != nil {
		return err
	}
	for _, verb := range action.Verbs {
		if err := reg.RegisterCallback(string(verb), h.decode); err != nil {
			return err
		}
	}
	return nil
}

// Routes returns the telebot routes for reg. Every update registers its
// sender before anything else happens.
func (h *Handlers) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		OwnerID: h.ownerID,
		Before:  h.registerUser,
	})
	return append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		Before: h.registerUser,
	}))
}

func (h *Handlers) registerUser(c tele.Context) {
	user := c.Sender()
	if user == nil {
		return
	}
	ctx := tghelpers.BuildContext(c)
	_, err := h.tracker.RegisterUserIfAbsent(ctx, usage.User{
		ID:        user.ID,
		FirstName: user.FirstName,
		Username:  user.Username,
		JoinDate:  h.now().Format(usage.JoinDateLayout),
	})
	if err != nil {
		logger.LogEvent(ctx, h.log, slog.LevelError, "user.register",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
}

// decode parses the callback token, applies the per-user cooldown and
// dispatches to the verb handler. Malformed tokens are dropped silently.
func (h *Handlers) decode(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	a, err := h.codec.Decode(callbacks.Raw(c.Callback()))
	if err != nil {
		tghelpers.SetOutcome(c, "ignored")
		logger.LogEvent(ctx, h.log, slog.LevelDebug, "callback.malformed",
			slog.String("status", "ignored"),
			slog.String("err", err.Error()),
		)
		return nil
	}
	h.metrics.Callback(string(a.Verb))

	next := func(c tele.Context) error { return h.callback[a.Verb](c, a) }
	if a.Verb == action.AdminPanel {
		next = h.ownerMW(next)
	}
	return h.limit(next)(c)
}

func (h *Handlers) onStart(c tele.Context) error {
	firstName := ""
	if u := c.Sender(); u != nil {
		firstName = u.FirstName
	}
	markup := DeviceMenu(h.devURL, middleware.IsOwner(c, h.ownerID))
	if err := tghelpers.SendText(c, welcomeText(firstName), markup); err != nil {
		return err
	}
	h.transition(c, Idle)
	return nil
}

func (h *Handlers) onCategories(c tele.Context, a action.Action) error {
	if err := tghelpers.EditText(c, textChooseCategory, &tele.SendOptions{
		ReplyMarkup: CategoryGrid(h.cat, a.Device),
	}); err != nil {
		return err
	}
	if a.Verb == action.ChooseDevice {
		h.transition(c, DeviceChosen, slog.String("device", string(a.Device)))
	}
	h.transition(c, CategoryListShown, slog.String("device", string(a.Device)))
	return nil
}

func (h *Handlers) onBack(c tele.Context, _ action.Action) error {
	firstName := ""
	if u := c.Sender(); u != nil {
		firstName = u.FirstName
	}
	if err := tghelpers.EditText(c, welcomeText(firstName), &tele.SendOptions{
		ReplyMarkup: DeviceMenu(h.devURL, middleware.IsOwner(c, h.ownerID)),
	}); err != nil {
		return err
	}
	h.transition(c, Idle)
	return nil
}

func (h *Handlers) onAdmin(c tele.Context, _ action.Action) error {
	ctx := tghelpers.BuildContext(c)
	summary, err := h.tracker.Summary(ctx)
	if err != nil {
		return err
	}
	return tghelpers.EditText(c, adminText(h.cat, summary), &tele.SendOptions{
		ParseMode:   tele.ModeMarkdownV2,
		ReplyMarkup: keyboardBack(),
	})
}

func (h *Handlers) transition(c tele.Context, s State, attrs ...slog.Attr) {
	logger.LogEvent(tghelpers.BuildContext(c), h.log, slog.LevelDebug, "state.transition",
		append([]slog.Attr{slog.String("state", s.String())}, attrs...)...)
}
