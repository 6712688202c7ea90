package middleware

import (
	"runtime/debug"

	"log/slog"

	"github.com/dkotov/fishshop-bot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware turns handler panics into an error log line so one
// bad update cannot take the poller down.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Int("update_id", c.Update().ID),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}
