// Package client provides the resilient helpdesk HTTP access layer:
// response caching, retry with backoff, and error enrichment.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/helpdeskhq/helpdesk-mcp/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for helpdesk API operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpdesk_requests_total",
		Help: "Total helpdesk API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "helpdesk_request_duration_seconds",
		Help:    "Helpdesk API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpdesk_errors_total",
		Help: "Total helpdesk API errors by class",
	}, []string{"class"})
)

// defaultTimeout bounds each individual attempt, independent of the retry
// budget. There is no aggregate deadline spanning all retries; callers
// wanting one pass a context with a deadline.
const defaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of a failed response is read for enrichment.
const maxErrorBody = 64 << 10

// Config holds the client configuration.
type Config struct {
	// BaseURL is the helpdesk API root (e.g., "https://acme.example.com").
	BaseURL string

	// Token is the API bearer token.
	Token string

	// UserAgent identifies this client to the helpdesk service.
	UserAgent string

	// CacheTTL is the response cache entry lifetime. 0 disables caching
	// entirely: no store is constructed at all.
	CacheTTL time.Duration

	// CacheMaxSize is the response cache entry capacity.
	CacheMaxSize int

	// MaxRetries is the retry bound for transient failures on idempotent
	// requests. 0 disables retries.
	MaxRetries int

	// RetryBaseDelay is the backoff for the first retry.
	RetryBaseDelay time.Duration

	// Store overrides the response cache store (e.g., a shared Redis
	// store). When nil, an in-memory store is built from CacheTTL and
	// CacheMaxSize.
	Store cache.Store
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL, token string) Config {
	return Config{
		BaseURL:        baseURL,
		Token:          token,
		UserAgent:      "helpdesk-mcp/0.1.0",
		CacheTTL:       cache.DefaultTTL,
		CacheMaxSize:   cache.DefaultMaxSize,
		MaxRetries:     3,
		RetryBaseDelay: 1 * time.Second,
	}
}

// Client is the helpdesk API access facade. Every endpoint method calls
// through it: reads check the cache first and store on success, writes
// bypass the cache entirely.
type Client struct {
	httpClient *http.Client
	store      cache.Store // nil when caching is disabled
	config     Config
	retryCfg   RetryConfig
	logger     zerolog.Logger
}

// New creates a new helpdesk client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("API token is required")
	}

	retryCfg := DefaultRetryConfig()
	retryCfg.MaxRetries = cfg.MaxRetries
	if cfg.RetryBaseDelay > 0 {
		retryCfg.BaseDelay = cfg.RetryBaseDelay
	}

	store := cfg.Store
	if store == nil && cfg.CacheTTL > 0 {
		store = cache.NewMemoryStore(cfg.CacheTTL, cfg.CacheMaxSize)
	}

	logger := log.With().Str("component", "helpdesk-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		store:    store,
		config:   cfg,
		retryCfg: retryCfg,
		logger:   logger,
	}, nil
}

// Get performs a cached read. On a cache miss the request runs through the
// retry engine and a successful response body is stored for later reads.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	key := cache.Key{Method: http.MethodGet, Path: path, Query: query}

	if c.store != nil {
		if value, ok := c.store.Get(ctx, key.String()); ok {
			c.logger.Debug().Str("endpoint", path).Msg("Cache hit")
			return value, nil
		}
	}

	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		// Cache faults fail open: the response is still returned.
		if err := c.store.Set(ctx, key.String(), body); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", path).Msg("Failed to cache response")
		}
	}

	return body, nil
}

// Post performs an uncached create-type call. POST is never retried: its
// repetition would create duplicate side effects.
func (c *Client) Post(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, payload)
}

// Put performs an uncached replace-type call, retry-eligible.
func (c *Client) Put(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, nil, payload)
}

// Patch performs an uncached update-type call, retry-eligible.
func (c *Client) Patch(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, nil, payload)
}

// Delete performs an uncached remove-type call, retry-eligible.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do executes one logical request: marshal, retry-wrapped transport call,
// terminal enrichment. Writes never touch the cache.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = data
	}

	fullURL := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	resp, err := c.doWithRetry(ctx, method, path, fullURL, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return data, nil
}

// doWithRetry executes the outbound call, resubmitting idempotent requests
// on transient failures up to the retry bound. Each attempt is an
// independent call with an identical request; attempts within one logical
// request are strictly sequential.
func (c *Client) doWithRetry(ctx context.Context, method, endpoint, fullURL string, body []byte) (*http.Response, error) {
	maxRetries := c.retryCfg.MaxRetries
	if !isIdempotent(method) {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		req, err := c.newRequest(ctx, method, fullURL, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, reqErr := c.httpClient.Do(req)

		if reqErr == nil && resp.StatusCode < 400 {
			requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
			if attempt > 0 {
				c.logger.Info().
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return resp, nil
		}

		var class ErrorClass
		var retryAfter string
		if reqErr != nil {
			class = classify(0, reqErr)
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			c.logger.Warn().Err(reqErr).Str("endpoint", endpoint).Msg("HTTP request failed")
		} else {
			class = classify(resp.StatusCode, nil)
			retryAfter = resp.Header.Get("Retry-After")
			requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("Helpdesk request error")
		}
		errorsTotal.WithLabelValues(string(class)).Inc()

		if class.transient() && isIdempotent(method) && attempt < maxRetries {
			// Will retry: discard the failed response without enrichment.
			if resp != nil {
				io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
				resp.Body.Close()
			}

			delay := c.retryCfg.delay(attempt, retryAfter)
			retriesTotal.WithLabelValues(string(class)).Inc()
			retryBackoffSeconds.WithLabelValues(string(class)).Observe(delay.Seconds())

			c.logger.Debug().
				Str("endpoint", endpoint).
				Str("error_class", string(class)).
				Int("attempt", attempt).
				Dur("backoff", delay).
				Msg("Retrying request after backoff")

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
			case <-time.After(delay):
			}
			continue
		}

		// Terminal failure: enrich once and raise.
		exhausted := class.transient() && isIdempotent(method) && maxRetries > 0
		if exhausted {
			retryExhaustedTotal.WithLabelValues(string(class)).Inc()
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("attempts", attempt+1).
				Msg("Retry attempts exhausted")
		}

		if reqErr != nil {
			// Pure network failure: no structured body to enrich with.
			if exhausted {
				return nil, annotateExhausted(attempt+1, reqErr)
			}
			return nil, reqErr
		}

		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		terminal := enrich(resp.StatusCode, class, payload)
		if exhausted {
			return nil, annotateExhausted(attempt+1, terminal)
		}
		return nil, terminal
	}
}

// newRequest builds one attempt's request. Attempts never share a request:
// bodies are rebuilt from the same bytes so no mutation leaks between them.
func (c *Client) newRequest(ctx context.Context, method, fullURL string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// CacheStats reports the response cache state, or nil when caching is
// disabled (CacheTTL = 0).
func (c *Client) CacheStats(ctx context.Context) *cache.Stats {
	if c.store == nil {
		return nil
	}
	stats := c.store.Stats(ctx)
	return &stats
}

// ClearCache removes all cached responses.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Clear(ctx)
}

// Close releases the client's resources: it disposes the cache store,
// stopping its background sweep. Required for clean shutdown in
// long-running hosts.
func (c *Client) Close() error {
	if c.store != nil {
		c.store.Dispose()
	}
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
