package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
)

// RedisCache shares rendered analyses across service instances.
type RedisCache struct {
	metrics
	expiry time.Duration
	client *redis.Client
}

func NewRedisCache(client *redis.Client, expiry time.Duration, reg prometheus.Registerer) *RedisCache {
	return &RedisCache{
		metrics: newMetrics(reg),
		expiry:  expiry,
		client:  client,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res := c.client.Get(ctx, key)
	if err := res.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.WithLabelValues(string(KindRedis)).Inc()
			return nil, false, nil
		}
		return nil, false, err
	}
	c.hits.WithLabelValues(string(KindRedis)).Inc()
	b, err := res.Bytes()
	return b, err == nil, err
}

func (c *RedisCache) Put(ctx context.Context, key string, val []byte) error {
	return c.client.Set(ctx, key, val, c.expiry).Err()
}
