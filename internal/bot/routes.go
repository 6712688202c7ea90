package bot

import (
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/dkotov/fishshop-bot/core/logger"
	coretelegram "github.com/dkotov/fishshop-bot/core/telegram"
	"github.com/dkotov/fishshop-bot/core/telegram/helpers"
	"github.com/dkotov/fishshop-bot/core/telegram/middleware"
	"github.com/dkotov/fishshop-bot/internal/session"
	"github.com/dkotov/fishshop-bot/internal/shop"
)

// BuildRoutes binds every inbound update shape to the state machine:
// the restart command, free-text messages and button presses all flow
// through the same dispatch path.
func BuildRoutes(gateway shop.Gateway, sessions session.Store) []coretelegram.Route {
	handler := dispatchHandler(gateway, sessions)
	return []coretelegram.Route{
		{Endpoint: "/start", Handler: handler},
		{Endpoint: tele.OnText, Handler: handler},
		{Endpoint: tele.OnCallback, Handler: handler},
	}
}

func dispatchHandler(gateway shop.Gateway, sessions session.Store) tele.HandlerFunc {
	return func(c tele.Context) error {
		event, ok := eventFrom(c)
		if !ok {
			return nil
		}

		// Stop the button spinner regardless of dispatch outcome.
		if c.Callback() != nil {
			defer func() { _ = c.Respond() }()
		}

		ctx := helpers.WithHandler(c, "shop.dispatch")
		dispatcher := shop.NewDispatcher(gateway, newMessenger(c), sessions)

		start := time.Now()
		err := dispatcher.Dispatch(ctx, event)
		took := time.Since(start)
		messages, keyboard := middleware.GetCounters(c)

		if err != nil {
			logger.Error(ctx, "tg", "dispatch.failed",
				slog.Int64("chat_id", event.ChatID),
				slog.String("payload", logger.SanitizeLimit(event.Payload, 128)),
				slog.Duration("duration", logger.RoundMS(took)),
				slog.String("err", err.Error()),
			)
			// Already logged; surfacing it to telebot would only
			// duplicate the noise via OnError.
			return nil
		}

		logger.Info(ctx, "tg", "dispatch.done",
			slog.Int64("chat_id", event.ChatID),
			slog.Int("messages", messages),
			slog.Bool("kb", keyboard),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return nil
	}
}

// eventFrom normalizes a telebot update into a dispatcher event. Only
// messages and callbacks are dispatchable.
func eventFrom(c tele.Context) (shop.Event, bool) {
	if cb := c.Callback(); cb != nil {
		event := shop.Event{
			Payload:    strings.TrimSpace(cb.Data),
			FromButton: true,
		}
		if cb.Sender != nil {
			event.UserID = cb.Sender.ID
			event.Username = cb.Sender.Username
		}
		if cb.Message != nil {
			event.ChatID = cb.Message.Chat.ID
			event.MessageID = cb.Message.ID
		}
		return event, event.ChatID != 0
	}

	if msg := c.Message(); msg != nil {
		event := shop.Event{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Payload:   msg.Text,
		}
		if msg.Sender != nil {
			event.UserID = msg.Sender.ID
			event.Username = msg.Sender.Username
		}
		return event, true
	}

	return shop.Event{}, false
}
