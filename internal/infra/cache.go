package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	catalogCacheTTL = 5 * time.Minute
	catalogGenKey   = "catalog:gen"
)

// CatalogCache is a best-effort read-through cache for catalog list responses.
// Keys embed a generation counter; any catalog mutation (admin edit or bulk
// import) bumps the generation, which orphans all previous keys and lets the
// TTL reclaim them. A nil or unreachable Redis degrades to pass-through.
type CatalogCache struct {
	rdb *redis.Client
}

func NewCatalogCache(rdb *redis.Client) *CatalogCache {
	return &CatalogCache{rdb: rdb}
}

// Get unmarshals a cached value into dest. Returns false on miss or any error.
func (c *CatalogCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, c.versionedKey(ctx, key)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a value, best effort, errors ignored.
func (c *CatalogCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.versionedKey(ctx, key), raw, catalogCacheTTL).Err()
}

// Invalidate bumps the generation counter, detaching every cached list.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Incr(ctx, catalogGenKey).Err()
}

func (c *CatalogCache) versionedKey(ctx context.Context, key string) string {
	gen, err := c.rdb.Get(ctx, catalogGenKey).Int64()
	if err != nil {
		gen = 0
	}
	return fmt.Sprintf("catalog:%d:%s", gen, key)
}
