package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces helpdesk cache entries in a shared Redis database.
const keyPrefix = "helpdesk:cache:"

// RedisStore is a Store backed by Redis, for deployments running several
// server instances against the same helpdesk account. Expiry is delegated
// to Redis TTLs and capacity to the Redis maxmemory policy, so no LRU
// bookkeeping or background sweep is needed here.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("cache: redis client cannot be nil")
	}
	if ttl <= 0 {
		panic("cache: ttl must be positive (ttl=0 means no store)")
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached value for key. Redis errors are reported as
// misses so a degraded Redis never blocks requests.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			CacheErrors.WithLabelValues("get").Inc()
		}
		CacheMisses.Inc()
		return nil, false
	}

	CacheHits.WithLabelValues("redis").Inc()
	return data, true
}

// Set stores the value under key with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, s.ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return err
	}
	return nil
}

// Clear removes all helpdesk cache entries, leaving unrelated keys in the
// database untouched.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			CacheErrors.WithLabelValues("clear").Inc()
			return err
		}
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues("clear").Inc()
		return err
	}
	return nil
}

// Stats counts helpdesk cache entries. MaxSize is 0: capacity is managed
// by Redis, not by this store.
func (s *RedisStore) Stats(ctx context.Context) Stats {
	count := 0
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues("stats").Inc()
	}

	return Stats{
		Entries: count,
		TTL:     s.ttl,
		MaxSize: 0,
	}
}

// Dispose is a no-op: the Redis client is owned by the caller and entries
// expire via their TTLs.
func (s *RedisStore) Dispose() {}

var _ Store = (*RedisStore)(nil)
