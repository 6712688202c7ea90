// Package helpers bridges telebot contexts and the context.Context
// carried through the service layers.
package helpers

import (
	"context"

	"github.com/dkotov/fishshop-bot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const ctxCacheKey = "logger_ctx"

// StoreContext caches a context on the telebot context so every layer
// handling the same update shares one rid-enriched context.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(ctxCacheKey, ctx)
}

func cachedContext(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(ctxCacheKey).(context.Context)
	return ctx, ok
}

// BuildContext returns the context for the current update, creating
// and caching one (rid, update/user/chat metadata, component logger)
// when the logging middleware has not stored it yet.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := cachedContext(c); ok {
		return ctx
	}

	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}

	upd := c.Update()
	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(upd.ID, chatID, userID)
	}

	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

// WithHandler tags the update's context with the handler name and
// re-caches it so later log lines carry the same tag.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}
