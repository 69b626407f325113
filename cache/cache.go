// Package cache provides the analysis result cache used by the service:
// rendered responses keyed by statement text, backed by an in-process LRU
// or by Redis for multi-instance deployments.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
)

type Kind string

const (
	KindNone  Kind = ""
	KindLocal Kind = "local"
	KindRedis Kind = "redis"
)

func (k *Kind) Set(s string) error {
	switch Kind(s) {
	case KindNone, KindLocal, KindRedis:
		*k = Kind(s)
		return nil
	}
	return fmt.Errorf("invalid cache kind: %s", s)
}

func (k Kind) String() string { return string(k) }

type Config struct {
	Kind Kind
	// LocalSize is the number of analyses kept by the local cache.
	LocalSize int
	// RedisAddr is the host:port of the Redis server for the redis kind.
	RedisAddr string
	// RedisKeyExpiration is the expiration set on created keys.  Zero
	// means no expiration and should only be used when Redis has a key
	// eviction policy configured.
	RedisKeyExpiration time.Duration
}

// Cache stores rendered analysis responses by statement text.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, val []byte) error
}

// New builds the cache selected by conf, or nil for KindNone.
func New(conf Config, reg prometheus.Registerer) (Cache, error) {
	switch conf.Kind {
	case KindLocal:
		return NewLocalCache(conf.LocalSize, reg)
	case KindRedis:
		client := redis.NewClient(&redis.Options{Addr: conf.RedisAddr})
		return NewRedisCache(client, conf.RedisKeyExpiration, reg), nil
	}
	return nil, nil
}
