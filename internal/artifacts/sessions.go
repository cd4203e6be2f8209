package artifacts

import (
	"context"
	"sync"
	"time"

	"trexxdash/internal/infrastructure"
)

type sessionKey struct{}

// WithSession attaches a session identifier to ctx.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext returns the session identifier carried by ctx, if any.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// LoaderFactory builds a loader around a session's cache.
type LoaderFactory func(cache *Cache) *Loader

type sessionEntry struct {
	loader    *Loader
	createdAt time.Time
	lastSeen  time.Time
}

// Sessions keeps one cache per session. Sessions expire after ttl without
// use; when maxSize is reached the least recently used one is dropped.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	maxSize int
	factory LoaderFactory
	metrics *infrastructure.DashboardMetrics
	now     func() time.Time

	created  int64
	expired  int64
	evicted  int64
	stopChan chan struct{}
	stopOnce sync.Once
}

// SessionStats reports the registry's state
type SessionStats struct {
	Active      int     `json:"active"`
	MaxSize     int     `json:"max_size"`
	Created     int64   `json:"created"`
	Expired     int64   `json:"expired"`
	Evicted     int64   `json:"evicted"`
	TTLSeconds  float64 `json:"ttl_seconds"`
	CacheHits   int64   `json:"cache_hits"`
	CacheMisses int64   `json:"cache_misses"`
}

// NewSessions creates the registry and starts its expiry loop. Call Stop to
// end the loop.
func NewSessions(ttl time.Duration, maxSize int, factory LoaderFactory, metrics *infrastructure.DashboardMetrics) *Sessions {
	s := &Sessions{
		entries:  make(map[string]*sessionEntry),
		ttl:      ttl,
		maxSize:  maxSize,
		factory:  factory,
		metrics:  metrics,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	go s.cleanup(sweepInterval(ttl))

	return s
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// LoaderFor returns the loader of the session carried by ctx.
func (s *Sessions) LoaderFor(ctx context.Context) *Loader {
	return s.Loader(SessionFromContext(ctx))
}

// Loader returns the loader for session id, starting a new session (with an
// empty cache) when id is unknown or expired.
func (s *Sessions) Loader(id string) *Loader {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[id]; ok {
		if now.Sub(e.lastSeen) <= s.ttl {
			e.lastSeen = now
			return e.loader
		}
		s.dropLocked(id, e)
		s.expired++
	}

	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		s.evictOldestLocked()
	}

	e := &sessionEntry{loader: s.factory(NewCache()), createdAt: now, lastSeen: now}
	s.entries[id] = e
	s.created++
	infrastructure.RecordSessionChange(context.Background(), s.metrics, 1)
	return e.loader
}

// End drops session id and its cache. It reports whether the session existed.
func (s *Sessions) End(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	s.dropLocked(id, e)
	return true
}

// Stats returns registry statistics
func (s *Sessions) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := SessionStats{
		Active:     len(s.entries),
		MaxSize:    s.maxSize,
		Created:    s.created,
		Expired:    s.expired,
		Evicted:    s.evicted,
		TTLSeconds: s.ttl.Seconds(),
	}
	for _, e := range s.entries {
		cs := e.loader.cache.Stats()
		stats.CacheHits += cs.Hits
		stats.CacheMisses += cs.Misses
	}
	return stats
}

// Stop ends the expiry loop and drops every session.
func (s *Sessions) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.mu.Lock()
		for id, e := range s.entries {
			s.dropLocked(id, e)
		}
		s.mu.Unlock()
	})
}

func (s *Sessions) dropLocked(id string, e *sessionEntry) {
	e.loader.cache.Clear()
	delete(s.entries, id)
	infrastructure.RecordSessionChange(context.Background(), s.metrics, -1)
}

func (s *Sessions) evictOldestLocked() {
	var oldestID string
	var oldest *sessionEntry
	for id, e := range s.entries {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	if oldest != nil {
		s.dropLocked(oldestID, oldest)
		s.evicted++
	}
}

// sweep drops sessions idle for longer than ttl
func (s *Sessions) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			s.dropLocked(id, e)
			s.expired++
			dropped++
		}
	}
	return dropped
}

func (s *Sessions) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}
