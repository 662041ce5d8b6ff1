package postcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces post-cache keys in Redis.
const keyPrefix = "eventcrawl:postcache:"

// DefaultRetention is the Redis key TTL. The whole per-source set expires
// together; an expired set means posts may be re-examined once.
const DefaultRetention = 30 * 24 * time.Hour

// RedisStore is a Redis-backed Store for deployments where several
// ingestion hosts share one cache. Callers should fall back to a
// FileStore when Redis is unreachable.
type RedisStore struct {
	client    *redis.Client
	source    string
	retention time.Duration
}

// NewRedisStore creates a Redis-backed cache for one source. retention
// <= 0 selects DefaultRetention.
func NewRedisStore(client *redis.Client, source string, retention time.Duration) *RedisStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RedisStore{
		client:    client,
		source:    source,
		retention: retention,
	}
}

// key returns the Redis set key for this source.
func (s *RedisStore) key() string {
	return keyPrefix + s.source
}

// Seen reports whether the key is in the source's processed set.
func (s *RedisStore) Seen(ctx context.Context, key string) (bool, error) {
	seen, err := s.client.SIsMember(ctx, s.key(), key).Result()
	if err != nil {
		return false, fmt.Errorf("post cache seen: %w", err)
	}
	return seen, nil
}

// Mark adds the key to the processed set and refreshes the TTL.
func (s *RedisStore) Mark(ctx context.Context, key string) error {
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, s.key(), key)
	pipe.Expire(ctx, s.key(), s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("post cache mark: %w", err)
	}
	return nil
}

// Compact is a no-op for Redis; retention is enforced by the key TTL.
func (s *RedisStore) Compact(ctx context.Context) error {
	return nil
}
