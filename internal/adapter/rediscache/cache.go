// Package rediscache reads re-processing state from Redis.
//
// The cache is written by the external ML job as it processes a chunk; this
// service never writes to it. Keys follow the contract
// "reprocessing:{chunkID}:status" and hold a JSON document.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paddockvision/paddock-backend/internal/config"
)

// ReprocessingState is the wire format of a cache entry. All fields except
// chunk scoping are optional: the tracker applies defaults for absent ones.
type ReprocessingState struct {
	Status      string     `json:"status"`
	Progress    *int       `json:"progress"`
	Step        string     `json:"step"`
	Error       *string    `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Cache reads re-processing state entries from Redis.
type Cache struct {
	client *redis.Client
}

// New creates a Cache from the configured Redis URL.
func New(cfg config.CacheConfig) (*Cache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse cache URL: %w", err)
	}

	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout

	return &Cache{client: redis.NewClient(opts)}, nil
}

// NewWithClient wraps an existing Redis client (for tests).
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// stateKey builds the cache key for a chunk's re-processing state.
func stateKey(chunkID string) string {
	return fmt.Sprintf("reprocessing:%s:status", chunkID)
}

// GetReprocessingState returns the cached state for a chunk, or (nil, nil)
// when no entry exists. Unreachable Redis and malformed entries return an
// error; callers decide whether to degrade.
func (c *Cache) GetReprocessingState(ctx context.Context, chunkID string) (*ReprocessingState, error) {
	raw, err := c.client.Get(ctx, stateKey(chunkID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", stateKey(chunkID), err)
	}

	var state ReprocessingState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", stateKey(chunkID), err)
	}

	return &state, nil
}

// Ping checks Redis reachability for health endpoints.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
