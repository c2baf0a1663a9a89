// Package metrics provides the centralized Prometheus registry reference
// for the helpdesk MCP adapter. Metrics are defined in their respective
// packages (client, cache, registry) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the adapter.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - helpdesk_cache_hits_total{layer} (Counter): Cache hits by layer (memory, redis)
//   - helpdesk_cache_misses_total (Counter): Cache misses
//   - helpdesk_cache_evictions_total (Counter): Entries evicted at capacity
//   - helpdesk_cache_sweep_removals_total (Counter): Expired entries removed by the sweep
//   - helpdesk_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - helpdesk_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - helpdesk_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - helpdesk_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - helpdesk_retries_total{error_class} (Counter): Retry attempts by error class
//   - helpdesk_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - helpdesk_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Tool Metrics (pkg/registry):
//   - helpdesk_tool_calls_total{tool, outcome} (Counter): MCP tool calls by tool and outcome
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(helpdesk_cache_hits_total[5m])) /
//   (sum(rate(helpdesk_cache_hits_total[5m])) + sum(rate(helpdesk_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(helpdesk_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(helpdesk_request_duration_seconds_bucket[5m]))
//
//   # Retry Exhaustion Rate
//   rate(helpdesk_retry_exhausted_total[5m])
