// Package cache implements Redis-backed caches for the application layer.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/receipt-ledger/backend/internal/application/adapter"
	"github.com/receipt-ledger/backend/internal/domain/entity"
)

// DefaultMappingTTL bounds staleness when an invalidation is lost, e.g. when
// a write succeeds but the cache DEL fails.
const DefaultMappingTTL = 15 * time.Minute

type mappingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMappingCache creates a Redis-backed mapping cache. A zero ttl falls back
// to DefaultMappingTTL.
func NewMappingCache(client *redis.Client, ttl time.Duration) adapter.MappingCache {
	if ttl <= 0 {
		ttl = DefaultMappingTTL
	}
	return &mappingCache{
		client: client,
		ttl:    ttl,
	}
}

func mappingKey(userID uuid.UUID) string {
	return fmt.Sprintf("mappings:%s", userID)
}

// Get returns the cached mapping list, or (nil, nil) on a miss.
func (c *mappingCache) Get(ctx context.Context, userID uuid.UUID) ([]*entity.Mapping, error) {
	payload, err := c.client.Get(ctx, mappingKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read mapping cache: %w", err)
	}

	var mappings []*entity.Mapping
	if err := json.Unmarshal(payload, &mappings); err != nil {
		// A corrupt entry is treated as a miss; the caller reloads from the
		// repository and overwrites it.
		return nil, nil
	}

	return mappings, nil
}

// Set stores the mapping list for the user.
func (c *mappingCache) Set(ctx context.Context, userID uuid.UUID, mappings []*entity.Mapping) error {
	payload, err := json.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("failed to encode mapping cache entry: %w", err)
	}

	if err := c.client.Set(ctx, mappingKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write mapping cache: %w", err)
	}

	return nil
}

// Invalidate drops the cached list for the user.
func (c *mappingCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, mappingKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate mapping cache: %w", err)
	}
	return nil
}
