// Package database opens the Postgres connection used by the durable
// session backend and runs its schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	coreconfig "github.com/dkotov/fishshop-bot/core/config"
	"github.com/dkotov/fishshop-bot/core/logger"
	"log/slog"
)

const connectTimeout = 5 * time.Second

func connAttrs(cfg coreconfig.DatabaseConfig, event string) []any {
	return []any{
		slog.String("event", event),
		slog.String("driver", "postgres"),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
	}
}

// Connect opens the database, configures the pool, and verifies
// connectivity before handing the handle to the session store.
func Connect(cfg coreconfig.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	took := time.Since(start)
	if err != nil {
		attrs := append(connAttrs(cfg, "db.connect"),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		logger.DB.Error("db connect failed", attrs...)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		attrs := append(connAttrs(cfg, "db.ping"),
			slog.String("err", pingErr.Error()),
		)
		logger.DB.Error("db ping failed", attrs...)
		return nil, fmt.Errorf("db ping: %w", pingErr)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	attrs := append(connAttrs(cfg, "db.connect"),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	logger.DB.Info("db connected", attrs...)

	return db, nil
}

// WaitForPostgres polls the database until it accepts connections or
// the timeout elapses. Used before migrations on container startup.
func WaitForPostgres(dsn string, timeout time.Duration) error {
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				_ = db.Close()
				return nil
			}
			_ = db.Close()
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
