package finance

import (
	"sync"
	"time"
)

// SummaryCache keeps per-page summaries for a short TTL; the default is a
// process-local map, and the noop variant disables caching entirely.
type SummaryCache interface {
	Get(pageID string, now time.Time) (Summary, bool)
	Set(pageID string, summary Summary, expiresAt time.Time)
	Delete(pageID string)
}

type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(string, time.Time) (Summary, bool) { return Summary{}, false }
func (NoopSummaryCache) Set(string, Summary, time.Time)        {}
func (NoopSummaryCache) Delete(string)                         {}

type memorySummaryCache struct {
	mu    sync.Mutex
	items map[string]summaryCacheItem
}

type summaryCacheItem struct {
	summary   Summary
	expiresAt time.Time
}

func NewSummaryCache() SummaryCache {
	return &memorySummaryCache{items: make(map[string]summaryCacheItem)}
}

func (c *memorySummaryCache) Get(pageID string, now time.Time) (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[pageID]
	if !ok || now.After(item.expiresAt) {
		delete(c.items, pageID)
		return Summary{}, false
	}
	return item.summary, true
}

func (c *memorySummaryCache) Set(pageID string, summary Summary, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[pageID] = summaryCacheItem{summary: summary, expiresAt: expiresAt}
}

func (c *memorySummaryCache) Delete(pageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, pageID)
}
