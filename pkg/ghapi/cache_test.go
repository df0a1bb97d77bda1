package ghapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := ghapi.NewMemoryCache(10)
	ctx := context.Background()

	entry := &ghapi.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      `"abc123"`,
	}

	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := ghapi.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.ErrorIs(t, err, ghapi.ErrCacheKeyNotFound)
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := ghapi.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "key1", &ghapi.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key1")
	require.ErrorIs(t, err, ghapi.ErrCacheExpired)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	cache := ghapi.NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", &ghapi.CacheEntry{Data: []byte("a")}))
	require.NoError(t, cache.Set(ctx, "b", &ghapi.CacheEntry{Data: []byte("b")}))

	_, err := cache.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, cache.Set(ctx, "c", &ghapi.CacheEntry{Data: []byte("c")}))

	assert.True(t, cache.Has(ctx, "a"))
	assert.False(t, cache.Has(ctx, "b"))
	assert.True(t, cache.Has(ctx, "c"))
	assert.Equal(t, 2, cache.Len())
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := ghapi.NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", &ghapi.CacheEntry{}))
	require.NoError(t, cache.Set(ctx, "b", &ghapi.CacheEntry{}))

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
}

func TestCacheFactory(t *testing.T) {
	t.Parallel()

	cache, err := ghapi.NewCacheFromConfig(nil)
	require.NoError(t, err)
	assert.IsType(t, &ghapi.MemoryCache{}, cache)

	cache, err = ghapi.NewCacheFromConfig(&ghapi.CacheConfig{Type: ghapi.CacheTypeNone})
	require.ErrorIs(t, err, ghapi.ErrCacheDisabled)
	assert.Nil(t, cache)

	_, err = ghapi.NewCacheFromConfig(&ghapi.CacheConfig{Type: ghapi.CacheTypeNATS})
	require.ErrorIs(t, err, ghapi.ErrNATSConfigRequired)

	_, err = ghapi.NewCacheFromConfig(&ghapi.CacheConfig{Type: "redis"})
	require.ErrorIs(t, err, ghapi.ErrUnsupportedCacheType)
}

func TestTieredCache(t *testing.T) {
	t.Parallel()

	l1Cache := ghapi.NewMemoryCache(10)
	l2Cache := ghapi.NewMemoryCache(100)
	chain := ghapi.NewTieredCache(l1Cache, l2Cache)
	ctx := context.Background()

	entry := &ghapi.CacheEntry{Data: []byte("chain test"), ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, chain.Set(ctx, "chain-key", entry))
	assert.True(t, l1Cache.Has(ctx, "chain-key"))
	assert.True(t, l2Cache.Has(ctx, "chain-key"))

	require.NoError(t, l1Cache.Delete(ctx, "chain-key"))

	retrieved, err := chain.Get(ctx, "chain-key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.True(t, l1Cache.Has(ctx, "chain-key"))

	require.NoError(t, chain.Delete(ctx, "chain-key"))
	assert.False(t, chain.Has(ctx, "chain-key"))

	_, err = chain.Get(ctx, "chain-key")
	require.ErrorIs(t, err, ghapi.ErrKeyNotFoundInAnyCache)

	expired := &ghapi.CacheEntry{Data: []byte("old"), ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, l2Cache.Set(ctx, "stale", expired))

	_, err = chain.Get(ctx, "stale")
	require.ErrorIs(t, err, ghapi.ErrKeyNotFoundInAnyCache)
	assert.False(t, l1Cache.Has(ctx, "stale"))

	require.NoError(t, chain.Close())
}
