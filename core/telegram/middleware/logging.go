package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/dkotov/fishshop-bot/core/logger"
	tghelpers "github.com/dkotov/fishshop-bot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// seenUpdates keeps a short-lived set of processed update IDs so the
// receipt line is logged once even when the middleware chain is bound
// to several route branches.
var (
	seenMu      sync.Mutex
	seenUpdates = make(map[int]time.Time)
	seenKeepFor = 10 * time.Second
)

func markSeen(updateID int) bool {
	now := time.Now()
	seenMu.Lock()
	defer seenMu.Unlock()
	for id, ts := range seenUpdates {
		if now.Sub(ts) > seenKeepFor {
			delete(seenUpdates, id)
		}
	}
	if _, ok := seenUpdates[updateID]; ok {
		return false
	}
	seenUpdates[updateID] = now
	return true
}

// LoggerMiddleware assigns the rid, stores the request context for
// downstream handlers, and logs a single sampled receipt line per
// update. Callback payloads go on the wire verbatim (shop action
// tokens), so the raw data string is what gets logged.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(logger.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() && markSeen(upd.ID) {
			attrs := []slog.Attr{
				slog.String("status", "ok"),
				slog.String("rid", rid),
				slog.Int("update_id", upd.ID),
			}
			if chatID != 0 {
				attrs = append(attrs, slog.Int64("chat_id", chatID))
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if userID != 0 {
				attrs = append(attrs, slog.Int64("user_id", userID))
				if user != nil && user.Username != "" {
					attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
				}
				if user != nil && user.LanguageCode != "" {
					attrs = append(attrs, slog.String("lang", user.LanguageCode))
				}
			}

			switch {
			case upd.Callback != nil:
				if data := strings.TrimSpace(upd.Callback.Data); data != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(data, 256)))
				}
			case upd.Message != nil:
				if t := c.Text(); t != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
				}
			}
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received", attrs...)
		}

		return next(c)
	}
}
