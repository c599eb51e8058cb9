package middleware

import (
	"log/slog"

	"github.com/m3rciful/wallbot/core/logger"
	tghelpers "github.com/m3rciful/wallbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Limiter decides whether a user may act now.
type Limiter interface {
	Allow(userID int64) bool
}

// RateLimitOptions configures the rate limit middleware.
type RateLimitOptions struct {
	Limiter   Limiter
	OnLimited tele.HandlerFunc
}

// RateLimit drops updates from users the limiter rejects. Updates without a
// sender and a nil limiter pass through.
func RateLimit(opts RateLimitOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Limiter == nil {
				return next(c)
			}
			if opts.Limiter.Allow(user.ID) {
				return next(c)
			}

			logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelDebug, "tg.rate_limit",
				slog.String("status", "rate_limited"),
			)
			if opts.OnLimited != nil {
				return opts.OnLimited(c)
			}
			return nil
		}
	}
}
