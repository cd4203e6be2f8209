package artifacts

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes load results per dataset name, absences included. A Cache
// lives as long as its scope: the process, or a single session.
type Cache struct {
	mu         sync.RWMutex
	entries    map[Name]cacheEntry
	generation uint64
	group      singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	table    *Table
	present  bool
	loadedAt time.Time
}

// CacheStats is a point-in-time view of a Cache.
type CacheStats struct {
	Entries  int     `json:"entries"`
	Loaded   []Name  `json:"loaded"`
	Hits     int64   `json:"hit_count"`
	Misses   int64   `json:"miss_count"`
	HitRatio float64 `json:"hit_ratio"`
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Name]cacheEntry)}
}

func (c *Cache) lookup(name Name) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// fetch returns the memoized result for name, running read at most once per
// name even under concurrent first calls. hit is false only for the caller
// whose read populated the entry.
func (c *Cache) fetch(name Name, read func() (*Table, bool)) (table *Table, present, hit bool) {
	if e, ok := c.lookup(name); ok {
		c.hits.Add(1)
		return e.table, e.present, true
	}

	performed := false
	v, _, _ := c.group.Do(string(name), func() (any, error) {
		// A flight that finished between lookup and Do already stored it.
		if e, ok := c.lookup(name); ok {
			return e, nil
		}

		c.mu.RLock()
		gen := c.generation
		c.mu.RUnlock()

		performed = true
		t, ok := read()
		e := cacheEntry{table: t, present: ok, loadedAt: time.Now()}

		c.mu.Lock()
		if c.generation == gen {
			c.entries[name] = e
		}
		c.mu.Unlock()
		return e, nil
	})

	if performed {
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}
	e := v.(cacheEntry)
	return e.table, e.present, !performed
}

// Clear drops every entry. Reads in flight when Clear runs are not stored.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Name]cacheEntry)
	c.generation++
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	loaded := make([]Name, 0, len(c.entries))
	for n, e := range c.entries {
		if e.present {
			loaded = append(loaded, n)
		}
	}
	entries := len(c.entries)
	c.mu.RUnlock()

	sort.Slice(loaded, func(i, j int) bool { return loaded[i] < loaded[j] })

	hits, misses := c.hits.Load(), c.misses.Load()
	ratio := float64(0)
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return CacheStats{Entries: entries, Loaded: loaded, Hits: hits, Misses: misses, HitRatio: ratio}
}
