package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openheartlab/openheart-backend/internal/database"
	"github.com/openheartlab/openheart-backend/internal/models"
)

const (
	// StatsCacheKeyPrefix is the Redis key prefix for cached aggregate stats.
	StatsCacheKeyPrefix = "stats:"
	// StatsCacheTTL keeps stats hot between mutations without ever serving
	// them stale for long.
	StatsCacheTTL = 30 * time.Second
)

// StatsCache caches aggregate stats per collection in Redis. Every method is
// a no-op (or a miss) when Redis is not configured, so the file-only
// deployment works without it.
type StatsCache struct{}

// Get retrieves cached stats for a collection. Returns false on miss.
func (c *StatsCache) Get(ctx context.Context, collection string, dest *models.Stats) bool {
	if database.RedisClient == nil {
		return false
	}
	val, err := database.RedisClient.Get(ctx, StatsCacheKeyPrefix+collection).Result()
	if err != nil {
		return false // cache miss, not an error
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}
	return true
}

// Set stores stats for a collection with the cache TTL.
func (c *StatsCache) Set(ctx context.Context, collection string, stats models.Stats) {
	if database.RedisClient == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	database.RedisClient.Set(ctx, StatsCacheKeyPrefix+collection, data, StatsCacheTTL)
}

// Invalidate drops the cached stats for a collection. Called after every
// successful mutation.
func (c *StatsCache) Invalidate(ctx context.Context, collection string) {
	if database.RedisClient == nil {
		return
	}
	database.RedisClient.Del(ctx, StatsCacheKeyPrefix+collection)
}

// Cache is the shared stats cache instance.
var Cache = &StatsCache{}
