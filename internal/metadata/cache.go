package metadata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores successful external lookups as JSON strings.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps rdb.  A zero ttl means one day.
func NewRedisCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(normalized string) string {
	return c.prefix + ":lookup:" + normalized
}

// Get returns the cached record for a normalized title.  Misses and Redis
// errors both report false.
func (c *RedisCache) Get(ctx context.Context, normalized string) (Record, bool) {
	bs, err := c.rdb.Get(ctx, c.key(normalized)).Bytes()
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(bs, &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

// Set caches rec under a normalized title.
func (c *RedisCache) Set(ctx context.Context, normalized string, rec Record) error {
	bs, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(normalized), bs, c.ttl).Err()
}
