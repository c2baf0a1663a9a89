package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/helpdeskhq/helpdesk-mcp/pkg/cache"
	"github.com/helpdeskhq/helpdesk-mcp/pkg/client"
	"github.com/helpdeskhq/helpdesk-mcp/pkg/helpdesk"
	"github.com/helpdeskhq/helpdesk-mcp/pkg/logging"
	"github.com/helpdeskhq/helpdesk-mcp/pkg/registry"
)

const version = "0.1.0"

func main() {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
		Output: os.Stderr,
	})

	cfg := client.Config{
		BaseURL:        getEnv("HELPDESK_BASE_URL", ""),
		Token:          getEnv("HELPDESK_API_TOKEN", ""),
		UserAgent:      getEnv("USER_AGENT", "helpdesk-mcp/"+version),
		CacheTTL:       getEnvDurationMS("CACHE_TTL_MS", cache.DefaultTTL),
		CacheMaxSize:   getEnvInt("CACHE_MAX_SIZE", cache.DefaultMaxSize),
		MaxRetries:     getEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay: getEnvDurationMS("RETRY_BASE_DELAY_MS", time.Second),
	}

	// A shared Redis cache replaces the in-process store when REDIS_URL
	// is set and the cache is enabled.
	if redisURL := getEnv("REDIS_URL", ""); redisURL != "" && cfg.CacheTTL > 0 {
		redisClient := redis.NewClient(&redis.Options{Addr: redisURL})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cancel()
			log.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
		}
		cancel()

		cfg.Store = cache.NewRedisStore(redisClient, cfg.CacheTTL)
		log.Info().Str("redis_url", redisURL).Msg("Using Redis response cache")
	}

	hdClient, err := client.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create helpdesk client")
	}
	defer hdClient.Close()

	svc := helpdesk.NewService(hdClient)

	reg := registry.New(registry.Config{
		ServerInfo: registry.ServerInfo{Name: "helpdesk-mcp", Version: version},
	})
	if err := registry.RegisterHelpdeskTools(reg, svc); err != nil {
		log.Fatal().Err(err).Msg("Failed to register helpdesk tools")
	}

	ctx := context.Background()

	switch transport := getEnv("MCP_TRANSPORT", "stdio"); transport {
	case "stdio":
		log.Info().Str("version", version).Msg("Serving MCP over stdio")
		if err := registry.ServeStdio(ctx, reg); err != nil {
			log.Fatal().Err(err).Msg("Stdio transport failed")
		}
	case "http":
		if err := serveHTTP(reg); err != nil {
			log.Fatal().Err(err).Msg("HTTP transport failed")
		}
	default:
		log.Fatal().Str("transport", transport).Msg("Unknown MCP_TRANSPORT (want stdio or http)")
	}
}

func serveHTTP(reg *registry.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", registry.ServeHTTP(reg))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)

	addr := ":" + getEnv("PORT", "8080")
	log.Info().Str("addr", addr).Str("version", version).Msg("Serving MCP over HTTP")

	return http.ListenAndServe(addr, mux)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer in environment, using default")
		return defaultValue
	}
	return n
}

func getEnvDurationMS(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	ms, err := strconv.Atoi(value)
	if err != nil || ms < 0 {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration in environment, using default")
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
