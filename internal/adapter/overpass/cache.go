package overpass

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/observability"
)

// CachedSource wraps an OverlaySource with a TTL cache keyed by bounding box.
type CachedSource struct {
	inner   domain.OverlaySource
	cache   *cache.Cache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator. Entries expire after ttl; expired
// entries are purged every 2*ttl.
func NewCachedSource(inner domain.OverlaySource, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedSource) Features(ctx context.Context, bbox domain.BBox) (domain.Overlay, error) {
	key := bbox.Key()
	if v, ok := c.cache.Get(key); ok {
		c.metrics.OverlayCache.WithLabelValues("hit").Inc()
		return v.(domain.Overlay), nil
	}
	c.metrics.OverlayCache.WithLabelValues("miss").Inc()

	overlay, err := c.inner.Features(ctx, bbox)
	if err != nil {
		return overlay, err
	}
	c.cache.Set(key, overlay, cache.DefaultExpiration)
	return overlay, nil
}

// Len reports the number of cached boxes, including expired ones not yet purged.
func (c *CachedSource) Len() int {
	return c.cache.ItemCount()
}
