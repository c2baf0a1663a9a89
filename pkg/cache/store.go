package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultTTL is the default entry lifetime.
	DefaultTTL = 30 * time.Second

	// DefaultMaxSize is the default entry capacity of the memory store.
	DefaultMaxSize = 1000

	// sweepInterval is how often the background sweep scans for expired
	// entries. Independent of the configured TTL: Get re-checks expiry
	// itself, the sweep only reclaims memory for keys nobody re-queries.
	sweepInterval = 60 * time.Second
)

// Stats describes the current state of a store.
type Stats struct {
	// Entries is the current entry count.
	Entries int

	// TTL is the configured entry lifetime.
	TTL time.Duration

	// MaxSize is the configured capacity (0 = unbounded).
	MaxSize int
}

// Store is a bounded key/value cache for helpdesk responses.
//
// Implementations must be safe for concurrent use. Values are opaque;
// only GET responses are ever offered to a store.
type Store interface {
	// Get returns the cached value if present and unexpired, updating the
	// entry's recency. Expired entries are removed immediately.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value under key with fresh timestamps, evicting the
	// least recently used entry first when at capacity.
	Set(ctx context.Context, key string, value []byte) error

	// Clear removes all entries unconditionally.
	Clear(ctx context.Context) error

	// Stats reports entry count and configuration for observability.
	Stats(ctx context.Context) Stats

	// Dispose stops any background work and clears all entries.
	// Safe to call more than once.
	Dispose()
}

type entry struct {
	value        []byte
	storedAt     time.Time
	lastAccessed time.Time

	// seq breaks lastAccessed ties deterministically (insertion order).
	seq uint64
}

// MemoryStore is the in-memory Store with TTL expiry, LRU eviction and a
// background expiry sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
	seq     uint64

	ticker   *time.Ticker
	done     chan struct{}
	disposed bool
}

// NewMemoryStore creates a memory store and starts its background sweep.
// A non-positive maxSize falls back to DefaultMaxSize. Callers that want
// caching disabled must not construct a store at all (ttl must be positive).
func NewMemoryStore(ttl time.Duration, maxSize int) *MemoryStore {
	if ttl <= 0 {
		panic("cache: ttl must be positive (ttl=0 means no store)")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	s := &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		maxSize: maxSize,
		ticker:  time.NewTicker(sweepInterval),
		done:    make(chan struct{}),
	}

	go s.sweepLoop()

	return s
}

// Get returns the cached value for key, refreshing its recency.
// An expired entry is removed immediately so a later Set starts clean.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		CacheMisses.Inc()
		return nil, false
	}

	if time.Since(e.storedAt) > s.ttl {
		delete(s.entries, key)
		CacheMisses.Inc()
		return nil, false
	}

	e.lastAccessed = time.Now()
	s.seq++
	e.seq = s.seq

	CacheHits.WithLabelValues("memory").Inc()
	return e.value, true
}

// Set inserts or replaces the entry for key with fresh timestamps.
// When the store is at capacity and key is new, the entry with the oldest
// lastAccessed is evicted first.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	now := time.Now()
	s.seq++
	s.entries[key] = &entry{
		value:        value,
		storedAt:     now,
		lastAccessed: now,
		seq:          s.seq,
	}

	return nil
}

// evictOldest removes the single entry with the smallest lastAccessed,
// ties broken by insertion order. Caller must hold mu.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldest *entry

	for key, e := range s.entries {
		if oldest == nil ||
			e.lastAccessed.Before(oldest.lastAccessed) ||
			(e.lastAccessed.Equal(oldest.lastAccessed) && e.seq < oldest.seq) {
			oldestKey = key
			oldest = e
		}
	}

	if oldest != nil {
		delete(s.entries, oldestKey)
		CacheEvictions.Inc()
	}
}

// Clear removes all entries.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]*entry)
	s.mu.Unlock()
	return nil
}

// Stats returns the current entry count and configuration.
func (s *MemoryStore) Stats(_ context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Entries: len(s.entries),
		TTL:     s.ttl,
		MaxSize: s.maxSize,
	}
}

// Dispose stops the background sweep and clears all entries. Idempotent.
func (s *MemoryStore) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true

	s.ticker.Stop()
	close(s.done)
	s.entries = make(map[string]*entry)
}

// sweepLoop periodically removes entries whose storedAt aged past the TTL.
func (s *MemoryStore) sweepLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.sweep()
		}
	}
}

// sweep removes all expired entries. The lock is held only for the scan
// and removal, never across the sweep interval.
func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.Sub(e.storedAt) > s.ttl {
			delete(s.entries, key)
			CacheSweepRemovals.Inc()
		}
	}
}

var _ Store = (*MemoryStore)(nil)
