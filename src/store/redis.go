package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mangaverse/realtime/config"
)

// RedisStore reads sessions from Redis using the key scheme of the HTTP
// layer's Redis session store: one string value per session at
// "<prefix><sid>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis creates a Redis-backed session store and verifies connectivity.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

// Get returns the serialized session blob for a raw session id.
func (s *RedisStore) Get(ctx context.Context, sid string) ([]byte, error) {
	blob, err := s.client.Get(ctx, s.prefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return blob, nil
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
