package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/civisense/natlas-backend/internal/model/chat"
)

// RedisStore keeps session histories in a TTL-capable key-value store.
// Values are the JSON-serialized turn list; the TTL is reset on every save.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Load fetches the stored turn list, returning an empty history when the key
// is missing or its TTL has elapsed.
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	data, err := s.client.Get(ctx, sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var turns []chat.Turn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return turns, nil
}

// Save replaces the stored turn list and resets the expiry to ttl from now.
func (s *RedisStore) Save(ctx context.Context, sessionID string, turns []chat.Turn, ttl time.Duration) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, sessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes the session entry. Deleting a missing id is not an error.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionID).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
