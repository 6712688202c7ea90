// Package app assembles the bot: session backend, commerce gateway,
// state machine and the Telegram runtime options.
package app

import (
	"context"

	tele "gopkg.in/telebot.v4"

	corebootstrap "github.com/dkotov/fishshop-bot/core/bootstrap"
	coreconfig "github.com/dkotov/fishshop-bot/core/config"
	coretelegram "github.com/dkotov/fishshop-bot/core/telegram"
	"github.com/dkotov/fishshop-bot/internal/bot"
	"github.com/dkotov/fishshop-bot/internal/session"
	"github.com/dkotov/fishshop-bot/internal/strapi"
)

// Bootstrap opens infrastructure per config and returns the run
// options for the Telegram runtime.
func Bootstrap(cfg *coreconfig.Config) (coretelegram.RunOptions, error) {
	infra, err := corebootstrap.Run(corebootstrap.Options{Config: cfg})
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	var sessions session.Store
	switch cfg.Session.Backend {
	case coreconfig.SessionBackendRedis:
		sessions = session.NewRedisStore(infra.Redis)
	case coreconfig.SessionBackendPostgres:
		sessions = session.NewPostgresStore(infra.DB)
	default:
		sessions = session.NewMemoryStore()
	}

	gateway := strapi.New(cfg.Strapi)

	return coretelegram.RunOptions{
		Config:      cfg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		BuildRoutes: func(*tele.Bot) []coretelegram.Route {
			return bot.BuildRoutes(gateway, sessions)
		},
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return infra.Close()
		},
	}, nil
}
