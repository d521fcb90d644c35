package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scentvault/scentvault-backend/pkg/logger"
)

const searchVersionKey = "search:version"

// SearchCache versioned cache of autocomplete results.
// Entries live under search:v{version}:{query}; bumping the version orphans
// every cached result at once and the old keys expire by TTL.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// SearchKey builds the cache key for a normalized query
func SearchKey(version int64, query string) string {
	return fmt.Sprintf("search:v%d:%s", version, strings.ToLower(strings.TrimSpace(query)))
}

func (c *SearchCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, searchVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get loads a cached result into dest. Returns false on miss.
func (c *SearchCache) Get(ctx context.Context, query string, dest interface{}) (bool, error) {
	v, err := c.version(ctx)
	if err != nil {
		return false, err
	}

	raw, err := c.client.Get(ctx, SearchKey(v, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Warn("Discarding undecodable search cache entry", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return false, nil
	}
	return true, nil
}

// Set stores a result under the current version
func (c *SearchCache) Set(ctx context.Context, query string, value interface{}) error {
	v, err := c.version(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, SearchKey(v, query), raw, c.ttl).Err()
}

// Invalidate bumps the version so later lookups miss
func (c *SearchCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, searchVersionKey).Err(); err != nil {
		logger.Error("Failed to bump search cache version", err)
		return err
	}
	return nil
}
