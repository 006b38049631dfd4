package viewer

import (
	"sync"
	"sync/atomic"
	"time"
)

// OverlayCache is a concurrent-safe LRU cache of rendered overlay
// GeoJSON keyed by map ID, with TTL expiration.
type OverlayCache struct {
	mu         sync.Mutex
	entries    map[string]*overlayCacheEntry
	order      []string // LRU order: front=oldest, back=newest
	maxEntries int
	ttl        time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
}

type overlayCacheEntry struct {
	data      []byte
	createdAt time.Time
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewOverlayCache creates a cache with the given capacity and TTL.
func NewOverlayCache(maxEntries int, ttl time.Duration) *OverlayCache {
	return &OverlayCache{
		entries:    make(map[string]*overlayCacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get retrieves a cached overlay. Returns nil on miss or expiration.
func (c *OverlayCache) Get(mapID string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[mapID]
	if !ok {
		c.misses.Add(1)
		return nil
	}

	if time.Since(entry.createdAt) > c.ttl {
		delete(c.entries, mapID)
		c.removeFromOrder(mapID)
		c.misses.Add(1)
		return nil
	}

	c.removeFromOrder(mapID)
	c.order = append(c.order, mapID)
	c.hits.Add(1)
	return entry.data
}

// Put stores an overlay, evicting the oldest entry if at capacity.
func (c *OverlayCache) Put(mapID string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[mapID]; ok {
		c.entries[mapID] = &overlayCacheEntry{data: data, createdAt: time.Now()}
		c.removeFromOrder(mapID)
		c.order = append(c.order, mapID)
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[mapID] = &overlayCacheEntry{data: data, createdAt: time.Now()}
	c.order = append(c.order, mapID)
}

// Invalidate drops the cached overlay for a map, typically after the
// map or its factor configuration is mutated.
func (c *OverlayCache) Invalidate(mapID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, mapID)
	c.removeFromOrder(mapID)
}

// Stats returns cache performance statistics.
func (c *OverlayCache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	maxEntries := c.maxEntries
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Entries:    entries,
		MaxEntries: maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
	}
}

func (c *OverlayCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
