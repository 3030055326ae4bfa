package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neubistro/bistro/pkg/cache"
)

func TestDisconnectedCacheIsNoop(t *testing.T) {
	require.False(t, cache.Enabled())
	ctx := context.Background()

	var dest string
	assert.False(t, cache.Get(ctx, "k", &dest))
	assert.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, cache.Forget(ctx, "k"))
	assert.NoError(t, cache.Close())
}

func TestRememberCallsThroughWithoutRedis(t *testing.T) {
	calls := 0
	fn := func() ([]string, error) {
		calls++
		return []string{"burger"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := cache.Remember(context.Background(), "menu", time.Minute, fn)
		require.NoError(t, err)
		assert.Equal(t, []string{"burger"}, got)
	}
	assert.Equal(t, 2, calls)
}

func TestRememberPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := cache.Remember(context.Background(), "menu", time.Minute, func() (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestGenerationWithoutRedis(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, int64(0), cache.Generation(ctx, "menu"))
	assert.NoError(t, cache.Bump(ctx, "menu"))
	assert.Equal(t, "menu:0", cache.VersionedKey(ctx, "menu"))
}

// connectRedis uses REDIS_ADDR (default localhost:6379) and skips when no
// server answers.
func connectRedis(t *testing.T) {
	t.Helper()
	if err := cache.Connect(context.Background()); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
}

func TestBumpRetiresOlderKeys(t *testing.T) {
	connectRedis(t)
	ctx := context.Background()
	name := "test:" + t.Name()
	t.Cleanup(func() { _ = cache.Forget(ctx, name+":gen") })

	before := cache.VersionedKey(ctx, name)
	require.NoError(t, cache.Bump(ctx, name))
	after := cache.VersionedKey(ctx, name)
	require.NotEqual(t, before, after)
	t.Cleanup(func() { _ = cache.Forget(ctx, before, after) })

	// A write to the retired key lands after the bump.
	require.NoError(t, cache.Set(ctx, before, "stale", time.Minute))

	got, err := cache.Remember(ctx, after, time.Minute, func() (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}
