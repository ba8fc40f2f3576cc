package synccache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "synccache:"

// RedisStore keeps the hash mapping in Redis, one hash set per entity type.
// Writes are per-key and atomic, so concurrent runs cannot clobber each
// other the way a whole-file rewrite can.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore over an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load verifies connectivity; the mapping itself stays server-side.
func (s *RedisStore) Load(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Get returns the stored hash for (entityType, naturalKey).
func (s *RedisStore) Get(ctx context.Context, entityType, naturalKey string) (string, bool, error) {
	hash, err := s.client.HGet(ctx, redisKeyPrefix+entityType, naturalKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return hash, true, nil
}

// Set stores the hash immediately; there is no staged state to flush.
func (s *RedisStore) Set(ctx context.Context, entityType, naturalKey, hash string) error {
	if err := s.client.HSet(ctx, redisKeyPrefix+entityType, naturalKey, hash).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Persist is a no-op; every Set is already durable.
func (s *RedisStore) Persist(context.Context) error {
	return nil
}
