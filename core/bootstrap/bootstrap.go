package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	coreconfig "github.com/dkotov/fishshop-bot/core/config"
	coredatabase "github.com/dkotov/fishshop-bot/core/database"
	"github.com/dkotov/fishshop-bot/core/logger"

	"log/slog"
)

// Options control the bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coreconfig.DatabaseConfig) (*sqlx.DB, error)
	Migrate    func(coreconfig.DatabaseConfig) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// Exactly one of DB/Redis is set unless the memory backend is configured,
// in which case both are nil.
type Result struct {
	DB    *sqlx.DB
	Redis *redis.Client
}

// Close releases whichever backend connection was opened.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	if r.DB != nil {
		return r.DB.Close()
	}
	if r.Redis != nil {
		return r.Redis.Close()
	}
	return nil
}

// Run initializes the logger and opens the configured session backend.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	switch opts.Config.Session.Backend {
	case coreconfig.SessionBackendPostgres:
		connect := opts.Connect
		if connect == nil {
			connect = coredatabase.Connect
		}
		db, err := connect(opts.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
		}

		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(opts.Config.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
		return &Result{DB: db}, nil

	case coreconfig.SessionBackendRedis:
		client, err := connectRedis(opts.Config.Session.Redis)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: redis initialization failed: %w", err)
		}
		return &Result{Redis: client}, nil

	case coreconfig.SessionBackendMemory:
		logger.Sessions.Warn("memory session backend selected; state is lost on restart",
			slog.String("event", "sessions.backend"),
			slog.String("backend", coreconfig.SessionBackendMemory),
		)
		return &Result{}, nil

	default:
		return nil, fmt.Errorf("bootstrap: unknown session backend %q", opts.Config.Session.Backend)
	}
}

func connectRedis(cfg coreconfig.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.Sessions.Error("redis ping failed",
			slog.String("event", "sessions.connect"),
			slog.String("backend", coreconfig.SessionBackendRedis),
			slog.String("host", cfg.Addr),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Sessions.Info("redis connected",
		slog.String("event", "sessions.connect"),
		slog.String("backend", coreconfig.SessionBackendRedis),
		slog.String("host", cfg.Addr),
		slog.Int("db", cfg.DB),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return client, nil
}
