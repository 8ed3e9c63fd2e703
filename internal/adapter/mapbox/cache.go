package mapbox

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/uap-dashboard/internal/domain"
	"github.com/couchcryptid/uap-dashboard/internal/observability"
)

// keyPrecision is the number of decimal places kept in cache keys. Three
// places is roughly 100 m, well inside any city boundary, so repeated
// sightings at one site share a lookup.
const keyPrecision = 3

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lru.Cache[string, domain.GeocodingResult]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) (*CachedGeocoder, error) {
	cache, err := lru.New[string, domain.GeocodingResult](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create geocode cache: %w", err)
	}
	return &CachedGeocoder{inner: inner, cache: cache, metrics: metrics}, nil
}

// ReverseGeocode serves repeated coordinates from the cache. Empty results
// are cached too since the table is only enriched once per process; errors
// are not.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := cacheKey(lat, lon)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	c.cache.Add(key, result)
	return result, nil
}

// Len reports the number of cached lookups.
func (c *CachedGeocoder) Len() int {
	return c.cache.Len()
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("rev:%.*f,%.*f", keyPrecision, lat, keyPrecision, lon)
}
