package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists states in Redis, one key per chat, no TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}

func (r *RedisStore) Get(ctx context.Context, chatID int64) (State, bool, error) {
	raw, err := r.client.Get(ctx, redisKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %d: %w", chatID, err)
	}
	state, ok := ParseState(raw)
	if !ok {
		// Unknown value in storage is treated as a missing session so
		// the dispatcher falls back to the start flow.
		return "", false, nil
	}
	return state, true, nil
}

func (r *RedisStore) Set(ctx context.Context, chatID int64, state State) error {
	if err := r.client.Set(ctx, redisKey(chatID), string(state), 0).Err(); err != nil {
		return fmt.Errorf("session set %d: %w", chatID, err)
	}
	return nil
}
