package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists states in the sessions table, one row per chat.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an already-connected database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, chatID int64) (State, bool, error) {
	var raw string
	err := p.db.GetContext(ctx, &raw,
		`SELECT state FROM sessions WHERE chat_id = $1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %d: %w", chatID, err)
	}
	state, ok := ParseState(raw)
	if !ok {
		return "", false, nil
	}
	return state, true, nil
}

func (p *PostgresStore) Set(ctx context.Context, chatID int64, state State) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO sessions (chat_id, state, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (chat_id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		chatID, string(state))
	if err != nil {
		return fmt.Errorf("session set %d: %w", chatID, err)
	}
	return nil
}
