package monitoring

import (
	"context"

	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

// MeteredCache counts hits and misses of another cache
type MeteredCache struct {
	outbound.CacheRepository
	metrics *MetricsCollector
}

// NewMeteredCache wraps next
func NewMeteredCache(next outbound.CacheRepository, metrics *MetricsCollector) *MeteredCache {
	return &MeteredCache{CacheRepository: next, metrics: metrics}
}

func (c *MeteredCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.CacheRepository.Get(ctx, key)
	if err == nil {
		c.metrics.RecordCacheResult(value != nil)
	}
	return value, err
}
