package postcache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/eventcrawl/internal/postcache"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := postcache.NewRedisStore(newTestRedis(t), "insta-hagen", 0)

	seen, err := store.Seen(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Mark(ctx, "k1"))

	seen, err = store.Seen(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Compact is a no-op; retention rides on the key TTL.
	require.NoError(t, store.Compact(ctx))
}

func TestRedisStore_SourcesAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestRedis(t)

	a := postcache.NewRedisStore(client, "source-a", 0)
	b := postcache.NewRedisStore(client, "source-b", 0)

	require.NoError(t, a.Mark(ctx, "shared-key"))

	seen, err := b.Seen(ctx, "shared-key")
	require.NoError(t, err)
	assert.False(t, seen)
}
