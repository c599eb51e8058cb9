package handlers

import (
	"context"
	"log/slog"

	"github.com/m3rciful/wallbot/bot/action"
	"github.com/m3rciful/wallbot/bot/pexels"
	"github.com/m3rciful/wallbot/bot/resultcache"
	"github.com/m3rciful/wallbot/core/logger"
	tghelpers "github.com/m3rciful/wallbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// onFetch delivers one photo for a fetch action. The download counter is
// bumped for every attempt, before the cache and the search are consulted.
// A failed search ends the action without a reply.
func (h *Handlers) onFetch(c tele.Context, a action.Action) error {
	ctx := tghelpers.BuildContext(c)
	attrs := []slog.Attr{
		slog.String("device", string(a.Device)),
		slog.String("category", a.Category),
		slog.Int("page", a.Page),
	}

	if err := h.tracker.IncrementCategoryCount(ctx, a.Category); err != nil {
		logger.LogEvent(ctx, h.log, slog.LevelError, "usage.increment",
			append(attrs, slog.String("status", "fail"), slog.String("err", err.Error()))...)
	}

	photo, ok := h.lookup(ctx, a, attrs)
	if !ok {
		h.metrics.Delivery("no_result")
		tghelpers.SetOutcome(c, "no_result")
		return nil
	}

	if err := tghelpers.SendPhoto(c, photo.PreviewURL, Caption(a.Category, photo), PhotoKeyboard(h.codec, a, photo)); err != nil {
		h.metrics.Delivery("fail")
		return err
	}
	h.metrics.Delivery("ok")
	h.transition(c, ImageShown, attrs...)
	return nil
}

// lookup serves the photo from the cache or searches on a miss. Only
// successful searches are cached. The search outlives the update: a late
// result still fills the cache.
func (h *Handlers) lookup(ctx context.Context, a action.Action, attrs []slog.Attr) (pexels.Photo, bool) {
	key := resultcache.Key{Category: a.Category, Device: a.Device, Page: a.Page}
	if photo, ok := h.cache.Get(ctx, key); ok {
		h.metrics.CacheLookup(true)
		logger.LogEvent(ctx, h.log, slog.LevelDebug, "cache.lookup", append(attrs, slog.String("cache", "hit"))...)
		return photo, true
	}
	h.metrics.CacheLookup(false)
	logger.LogEvent(ctx, h.log, slog.LevelDebug, "cache.lookup", append(attrs, slog.String("cache", "miss"))...)

	searchCtx := context.WithoutCancel(ctx)
	photo, ok := h.search.Search(searchCtx, pexels.Query{
		Term:        a.Category,
		Page:        a.Page,
		Orientation: a.Device.Orientation(),
	})
	if !ok {
		return pexels.Photo{}, false
	}
	h.cache.Set(searchCtx, key, photo)
	return photo, true
}
