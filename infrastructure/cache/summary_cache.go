package cache

import (
	"time"

	"github.com/Castore1977/project-track/pkg/observability"

	gocache "github.com/patrickmn/go-cache"
)

// SummaryCache memoises change summaries. Keys are derived from version
// checksums, so an overwritten version never hits a stale entry.
type SummaryCache struct {
	cache   *gocache.Cache
	metrics *observability.Collector
}

// NewSummaryCache creates a summary cache whose entries live for ttl
func NewSummaryCache(ttl time.Duration, metrics *observability.Collector) *SummaryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SummaryCache{
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

// Get returns a copy of the cached summary for key
func (c *SummaryCache) Get(key string) ([]string, bool) {
	cached, found := c.cache.Get(key)
	c.metrics.RecordCacheLookup(found)
	if !found {
		return nil, false
	}
	lines := cached.([]string)
	return append([]string(nil), lines...), true
}

// Set stores a copy of lines under key with the default expiration
func (c *SummaryCache) Set(key string, lines []string) {
	c.cache.SetDefault(key, append([]string(nil), lines...))
}

// Flush drops every entry
func (c *SummaryCache) Flush() {
	c.cache.Flush()
}

// Len returns the number of entries, including expired ones not yet evicted
func (c *SummaryCache) Len() int {
	return c.cache.ItemCount()
}
