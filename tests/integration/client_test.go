// Package integration holds tests that require Docker for the Redis
// testcontainer.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/helpdeskhq/helpdesk-mcp/internal/testutil"
	"github.com/helpdeskhq/helpdesk-mcp/pkg/cache"
	"github.com/helpdeskhq/helpdesk-mcp/pkg/client"
	"github.com/helpdeskhq/helpdesk-mcp/pkg/helpdesk"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		redisClient.Close()
		redisC.Terminate(ctx)
	})

	return redisClient
}

func TestRedisStoreRoundTrip(t *testing.T) {
	redisClient := setupTestRedis(t)
	ctx := context.Background()

	store := cache.NewRedisStore(redisClient, 200*time.Millisecond)

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Error("Get(missing) = hit, want miss")
	}

	if err := store.Set(ctx, "tickets", []byte(`{"tickets": []}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok := store.Get(ctx, "tickets")
	if !ok {
		t.Fatal("Get() = miss, want hit")
	}
	if string(value) != `{"tickets": []}` {
		t.Errorf("Get() = %q, want stored value", value)
	}

	stats := store.Stats(ctx)
	if stats.Entries != 1 {
		t.Errorf("Stats().Entries = %d, want 1", stats.Entries)
	}

	// Redis expires the entry via its native TTL.
	time.Sleep(300 * time.Millisecond)
	if _, ok := store.Get(ctx, "tickets"); ok {
		t.Error("Get() after TTL = hit, want miss")
	}
}

func TestRedisStoreClearRemovesOnlyPrefixedKeys(t *testing.T) {
	redisClient := setupTestRedis(t)
	ctx := context.Background()

	store := cache.NewRedisStore(redisClient, time.Minute)

	if err := redisClient.Set(ctx, "unrelated", "keep", 0).Err(); err != nil {
		t.Fatalf("seed unrelated key: %v", err)
	}
	if err := store.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "b", []byte("2")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if stats := store.Stats(ctx); stats.Entries != 0 {
		t.Errorf("Stats().Entries after Clear = %d, want 0", stats.Entries)
	}
	if val, err := redisClient.Get(ctx, "unrelated").Result(); err != nil || val != "keep" {
		t.Errorf("unrelated key = %q (err %v), want untouched", val, err)
	}
}

func TestClientWithRedisStoreEndToEnd(t *testing.T) {
	redisClient := setupTestRedis(t)
	ctx := context.Background()

	mock := testutil.NewMockHelpdesk()
	defer mock.Close()
	mock.SetResponse("/api/v2/tickets/1", testutil.NewJSONResponse(
		`{"ticket": {"id": 1, "subject": "Redis-backed read", "status": "open"}}`))

	cfg := client.DefaultConfig(mock.URL(), "test-token")
	cfg.Store = cache.NewRedisStore(redisClient, 30*time.Second)

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	defer c.Close()

	svc := helpdesk.NewService(c)

	if _, err := svc.GetTicket(ctx, 1); err != nil {
		t.Fatalf("first GetTicket() error = %v", err)
	}
	ticket, err := svc.GetTicket(ctx, 1)
	if err != nil {
		t.Fatalf("second GetTicket() error = %v", err)
	}
	if ticket.Subject != "Redis-backed read" {
		t.Errorf("Subject = %q, want %q", ticket.Subject, "Redis-backed read")
	}

	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("request count = %d, want 1 (second read served from Redis)", got)
	}

	// A second client instance shares the same cache.
	c2, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}
	defer c2.Close()

	if _, err := helpdesk.NewService(c2).GetTicket(ctx, 1); err != nil {
		t.Fatalf("cross-instance GetTicket() error = %v", err)
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("request count = %d, want 1 (cache shared across instances)", got)
	}
}
