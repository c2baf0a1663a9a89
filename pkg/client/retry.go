package client

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpdesk_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "helpdesk_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpdesk_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// retryableMethods enumerates the methods whose repetition has no side
// effect beyond the first successful application. POST creates duplicate
// resources and is deliberately absent: a failed POST is never resubmitted,
// whatever the failure class.
var retryableMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodHead:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// isIdempotent reports whether the method is eligible for retry.
func isIdempotent(method string) bool {
	return retryableMethods[strings.ToUpper(method)]
}

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxRetries is the number of resubmissions after the initial attempt.
	// 0 disables retries entirely.
	MaxRetries int

	// BaseDelay is the backoff for the first retry.
	BaseDelay time.Duration

	// MaxDelay caps the computed delay, whatever its source. A malicious or
	// misbehaving Retry-After directive cannot stall a request past this.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// delay computes the wait before resubmitting attempt number attempt
// (0-based). A parseable server-supplied Retry-After directive wins over
// computed backoff; either result is clamped to [0, MaxDelay].
func (c RetryConfig) delay(attempt int, retryAfter string) time.Duration {
	if d, ok := parseRetryAfter(retryAfter); ok {
		return c.clamp(d)
	}

	// Exponential backoff with ±20% jitter to avoid synchronized retry
	// storms across concurrent callers.
	backoff := c.BaseDelay << uint(attempt)
	jittered := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
	return c.clamp(jittered)
}

func (c RetryConfig) clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// parseRetryAfter parses a Retry-After header value: either delay-seconds
// or an HTTP-date. A malformed value reports false so the caller falls
// back to computed backoff.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}

	if at, err := http.ParseTime(value); err == nil {
		return time.Until(at), true
	}

	return 0, false
}

// annotateExhausted wraps the terminal error with retry-exhaustion context.
// errors.As still reaches the enriched *APIError through the wrap.
func annotateExhausted(attempts int, terminal error) error {
	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempts, terminal)
}
