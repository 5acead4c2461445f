package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChartCache caches serialized chart responses keyed by a birth-details
// hash. Entries expire after TTL so upstream ephemeris fixes propagate.
type RedisChartCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisChartCache(addr string, ttl time.Duration) *RedisChartCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &RedisChartCache{
		client: rdb,
		ttl:    ttl,
	}
}

// Get returns the cached value and whether the key was present. Transport
// errors are treated as misses: the chart is recomputed instead.
func (c *RedisChartCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *RedisChartCache) Set(ctx context.Context, key string, value string) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

func (c *RedisChartCache) Close() error {
	return c.client.Close()
}
