// Package synccache is the change-detection cache: a persisted mapping of
// (entity type, natural key) to a content hash, consulted to drop records
// whose content is unchanged since the last successful run. Losing the cache
// only costs efficiency, never correctness — every downstream write is
// idempotent.
package synccache

import (
	"context"
	"fmt"

	"github.com/erp/syncbridge/internal/domain/syncrec"
	"github.com/erp/syncbridge/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store persists the hash mapping. The file backend loads and persists
// wholesale; the Redis backend writes per key atomically, which makes it
// safe under concurrent runs.
type Store interface {
	Load(ctx context.Context) error
	Get(ctx context.Context, entityType, naturalKey string) (string, bool, error)
	Set(ctx context.Context, entityType, naturalKey, hash string) error
	Persist(ctx context.Context) error
}

// NewStore builds the configured cache backend.
func NewStore(cfg *config.CacheConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client), nil
	case "file":
		return NewFileStore(cfg.FilePath, logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Cache wraps a Store with the pipeline-facing contract.
type Cache struct {
	store Store
}

// NewCache creates a Cache over the given store.
func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// ShouldSync reports whether the record's content differs from the last
// successfully synced version, returning the content hash so the caller can
// commit it later without re-hashing.
func (c *Cache) ShouldSync(ctx context.Context, entityType string, rec syncrec.Record) (bool, string, error) {
	hash, err := syncrec.Hash(rec)
	if err != nil {
		return false, "", err
	}
	stored, ok, err := c.store.Get(ctx, entityType, rec.NaturalKey())
	if err != nil {
		return false, "", err
	}
	return !ok || stored != hash, hash, nil
}

// Commit stores the hash for a record whose transmission succeeded. It must
// not be called for records in failed batches: leaving them uncommitted is
// what guarantees a wholesale retry on the next run.
func (c *Cache) Commit(ctx context.Context, entityType, naturalKey, hash string) error {
	return c.store.Set(ctx, entityType, naturalKey, hash)
}

// Load loads the persisted mapping at process start.
func (c *Cache) Load(ctx context.Context) error {
	return c.store.Load(ctx)
}

// Persist flushes the mapping at the end of a successful run.
func (c *Cache) Persist(ctx context.Context) error {
	return c.store.Persist(ctx)
}
