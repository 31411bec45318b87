package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefactventures/artefact-mcp/infrastructure/database/sqlite"
)

func newTestCache(t *testing.T) (*responseCache, *time.Time) {
	t.Helper()

	conn, err := sqlite.NewConnection(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache, err := newResponseCache(conn, func() time.Time { return now })
	require.NoError(t, err)
	return cache, &now
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)

	_, hit, err := cache.Get("deals:all")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set("deals:all", []byte(`{"results":[]}`), 15*time.Minute))

	payload, hit, err := cache.Get("deals:all")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte(`{"results":[]}`), payload)
}

func TestCacheEntryExpires(t *testing.T) {
	cache, now := newTestCache(t)

	require.NoError(t, cache.Set("deals:all", []byte("payload"), 15*time.Minute))

	*now = now.Add(16 * time.Minute)

	_, hit, err := cache.Get("deals:all")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheOverwrite(t *testing.T) {
	cache, _ := newTestCache(t)

	require.NoError(t, cache.Set("companies:batch", []byte("v1"), time.Minute))
	require.NoError(t, cache.Set("companies:batch", []byte("v2"), time.Minute))

	payload, hit, err := cache.Get("companies:batch")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []byte("v2"), payload)
}

func TestCachePurgeExpired(t *testing.T) {
	cache, now := newTestCache(t)

	require.NoError(t, cache.Set("old", []byte("x"), time.Minute))
	require.NoError(t, cache.Set("fresh", []byte("y"), time.Hour))

	*now = now.Add(30 * time.Minute)

	purged, err := cache.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, hit, err := cache.Get("fresh")
	require.NoError(t, err)
	assert.True(t, hit)
}
