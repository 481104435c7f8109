package inatews

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
	"github.com/quakemon/quake-monev/internal/latency"
	"github.com/quakemon/quake-monev/internal/observability"
)

// CachedFetcher wraps a Fetcher with an in-memory LRU cache keyed by
// milestone and event id. Milestone data for a past event never changes,
// so hits are always safe to serve.
type CachedFetcher struct {
	inner     latency.Fetcher
	milestone domain.Milestone
	cache     *lruCache
	metrics   *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a milestone fetcher.
func NewCachedFetcher(inner latency.Fetcher, milestone domain.Milestone, maxEntries int, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:     inner,
		milestone: milestone,
		cache:     newLRUCache(maxEntries),
		metrics:   metrics,
	}
}

func (c *CachedFetcher) FetchMilestone(ctx context.Context, eventID string) (time.Time, error) {
	key := fmt.Sprintf("%s:%s", c.milestone, eventID)
	if ts, ok := c.cache.get(key); ok {
		c.metrics.MilestoneCache.WithLabelValues(string(c.milestone), "hit").Inc()
		return ts, nil
	}
	c.metrics.MilestoneCache.WithLabelValues(string(c.milestone), "miss").Inc()

	ts, err := c.inner.FetchMilestone(ctx, eventID)
	if err != nil {
		// Failures are not cached so transient outages can be retried.
		return ts, err
	}
	c.cache.put(key, ts)
	return ts, nil
}

// lruCache is a simple thread-safe LRU cache for milestone timestamps.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value time.Time
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return time.Time{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
