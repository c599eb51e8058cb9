package middleware

import (
	"log/slog"

	"github.com/m3rciful/wallbot/core/logger"
	tghelpers "github.com/m3rciful/wallbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// OwnerOptions configures OwnerOnly.
type OwnerOptions struct {
	OwnerID  int64
	OnReject tele.HandlerFunc
}

// IsOwner reports whether the sender of c is the configured owner.
func IsOwner(c tele.Context, ownerID int64) bool {
	user := c.Sender()
	return ownerID != 0 && user != nil && user.ID == ownerID
}

// OwnerOnly lets only the owner reach downstream handlers. Others are
// dropped, or passed to OnReject when set.
func OwnerOnly(opts OwnerOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if IsOwner(c, opts.OwnerID) {
				return next(c)
			}
			logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelDebug, "access.denied",
				slog.String("status", "ignored"),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}
