package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by store layer (memory, redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_cache_hits_total",
			Help: "Total number of helpdesk cache hits",
		},
		[]string{"layer"}, // "memory", "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "helpdesk_cache_misses_total",
			Help: "Total number of helpdesk cache misses",
		},
	)

	// CacheEvictions tracks LRU evictions from the memory store
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "helpdesk_cache_evictions_total",
			Help: "Total number of entries evicted to stay under capacity",
		},
	)

	// CacheSweepRemovals tracks expired entries removed by the background sweep
	CacheSweepRemovals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "helpdesk_cache_sweep_removals_total",
			Help: "Total number of expired entries removed by the background sweep",
		},
	)

	// CacheErrors tracks store operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "get", "set", "clear", "stats"
	)
)
