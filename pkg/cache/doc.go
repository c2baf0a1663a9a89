// Package cache provides bounded response caching for helpdesk API reads.
//
// The primary store is an in-memory map with per-entry TTL expiry and
// least-recently-used eviction once the configured capacity is reached.
// A background sweep reclaims memory held by entries that expired but were
// never re-queried. An optional Redis-backed store is available for
// deployments that run multiple server instances against the same account.
//
// # Basic Usage
//
//	// Create an in-memory store (30s TTL, 1000 entries)
//	store := cache.NewMemoryStore(30*time.Second, 1000)
//	defer store.Dispose()
//
//	// Build a canonical key
//	key := cache.Key{
//		Method: "GET",
//		Path:   "/api/v2/tickets",
//		Query:  url.Values{"status": []string{"open"}},
//	}
//
//	// Read through the cache
//	if value, ok := store.Get(ctx, key.String()); ok {
//		// cache hit
//	}
//
// # Shared Store
//
//	// Redis-backed store for multi-instance deployments
//	store := cache.NewRedisStore(redisClient, 30*time.Second)
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - helpdesk_cache_hits_total{layer} - Cache hits by store layer
//   - helpdesk_cache_misses_total - Cache misses
//   - helpdesk_cache_evictions_total - LRU evictions
//   - helpdesk_cache_sweep_removals_total - Entries removed by the sweep
//   - helpdesk_cache_errors_total{operation} - Store operation errors
//
// Values are opaque byte slices; decoding is the caller's concern. Only
// GET responses are ever offered to a store.
package cache
