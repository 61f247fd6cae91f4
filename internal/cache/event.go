package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/calshare/calshare/internal/model"
)

// Cache key prefixes and TTLs.
const (
	eventKeyPrefix = "event:"

	// DefaultEventTTL is the TTL for cached event data.
	DefaultEventTTL = 15 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetEvent retrieves an event from cache by id.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	key := eventKeyPrefix + eventID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var event model.Event
	if err := json.Unmarshal(data, &event); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}

	return &event, nil
}

// SetEvent stores an event in cache with the given TTL.
// A zero TTL uses DefaultEventTTL.
func (c *Cache) SetEvent(ctx context.Context, event *model.Event, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultEventTTL
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := eventKeyPrefix + event.ID
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache event: %w", err)
	}

	return nil
}

// InvalidateEvent removes an event from cache.
// Called on every mutation so readers never observe stale participant sets.
func (c *Cache) InvalidateEvent(ctx context.Context, eventID string) error {
	key := eventKeyPrefix + eventID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate event: %w", err)
	}

	return nil
}
