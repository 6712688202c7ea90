package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/dkotov/fishshop-bot/core/config"
	"github.com/dkotov/fishshop-bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the chain applied to every route: panic
// recovery, optional per-user rate limiting, receipt logging, and
// outbound message counting.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited func(tele.Context) error) []Middleware {
	chain := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil {
		if interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond; interval > 0 {
			chain = append(chain, Middleware{
				Name: "rate_limit",
				Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
					Interval:  interval,
					Exclude:   excludedKinds(cfg.RateLimit.ExcludeUpdates),
					OnLimited: onLimited,
				}),
			})
		}
	}

	return append(chain,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
}

func excludedKinds(kinds []string) map[string]struct{} {
	if len(kinds) == 0 {
		return nil
	}
	ex := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		ex[strings.ToLower(k)] = struct{}{}
	}
	return ex
}
