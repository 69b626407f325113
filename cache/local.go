package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// LocalCache keeps rendered analyses in an in-process LRU.
type LocalCache struct {
	metrics
	lru *lru.Cache[string, []byte]
}

func NewLocalCache(size int, reg prometheus.Registerer) (*LocalCache, error) {
	l, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &LocalCache{metrics: newMetrics(reg), lru: l}, nil
}

func (c *LocalCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if v, ok := c.lru.Get(key); ok {
		c.hits.WithLabelValues(string(KindLocal)).Inc()
		return v, true, nil
	}
	c.misses.WithLabelValues(string(KindLocal)).Inc()
	return nil, false, nil
}

func (c *LocalCache) Put(_ context.Context, key string, val []byte) error {
	c.lru.Add(key, val)
	return nil
}
