package datasource

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedDataSource decorates a DataSource with a TTL cache so repeated sweeps
// over the same symbols do not hit the provider again
type CachedDataSource struct {
	inner DataSource
	cache *gocache.Cache
}

// NewCachedDataSource wraps a data source with a TTL cache
func NewCachedDataSource(inner DataSource, ttl time.Duration) *CachedDataSource {
	return &CachedDataSource{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// FetchDailyBars returns cached bars when available, otherwise delegates
func (c *CachedDataSource) FetchDailyBars(ctx context.Context, symbol string, startDate, endDate time.Time) ([]BarData, error) {
	key := cacheKey(symbol, startDate, endDate)
	if cached, found := c.cache.Get(key); found {
		return cached.([]BarData), nil
	}

	bars, err := c.inner.FetchDailyBars(ctx, symbol, startDate, endDate)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, bars)
	return bars, nil
}

// Name returns the underlying data source name
func (c *CachedDataSource) Name() string {
	return c.inner.Name()
}

// IsEnabled returns whether the underlying data source is enabled
func (c *CachedDataSource) IsEnabled() bool {
	return c.inner.IsEnabled()
}

// Invalidate drops any cached entry for the given request
func (c *CachedDataSource) Invalidate(symbol string, startDate, endDate time.Time) {
	c.cache.Delete(cacheKey(symbol, startDate, endDate))
}

func cacheKey(symbol string, startDate, endDate time.Time) string {
	return fmt.Sprintf("%s:%s:%s", symbol, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
}
