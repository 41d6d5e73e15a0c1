package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	cache, err := NewCache(t.TempDir(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

// TestCache_RoundTrip tests persisting and reading back a result list.
func TestCache_RoundTrip(t *testing.T) {
	cache := newTestCache(t, 0)
	key := driven.NewCacheKey("exa", "render deprecated", 10)

	_, err := cache.Get(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	results := []domain.Result{
		{URL: "https://react.dev/1", Title: "one", Snippet: "first", Rank: 1, Provider: "exa"},
		{URL: "https://react.dev/2", Title: "two", Snippet: "second", Rank: 2, Provider: "exa"},
	}
	require.NoError(t, cache.Put(context.Background(), key, results))

	got, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, results, got)
}

// TestCache_Upsert tests that a second put replaces the entry.
func TestCache_Upsert(t *testing.T) {
	cache := newTestCache(t, 0)
	key := driven.NewCacheKey("exa", "q", 10)

	first := []domain.Result{{URL: "https://a.example.com", Title: "a", Rank: 1}}
	second := []domain.Result{{URL: "https://b.example.com", Title: "b", Rank: 1}}
	require.NoError(t, cache.Put(context.Background(), key, first))
	require.NoError(t, cache.Put(context.Background(), key, second))

	got, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

// TestCache_TTLExpiry tests that stale entries read as misses.
func TestCache_TTLExpiry(t *testing.T) {
	cache := newTestCache(t, time.Nanosecond)
	key := driven.NewCacheKey("exa", "q", 10)

	require.NoError(t, cache.Put(context.Background(), key, []domain.Result{{URL: "https://a.example.com", Rank: 1}}))
	time.Sleep(10 * time.Millisecond)

	_, err := cache.Get(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

// TestCache_SeparateKeys tests provider and top-k key separation.
func TestCache_SeparateKeys(t *testing.T) {
	cache := newTestCache(t, 0)

	keyA := driven.NewCacheKey("exa", "q", 10)
	keyB := driven.NewCacheKey("github", "q", 10)
	require.NoError(t, cache.Put(context.Background(), keyA, []domain.Result{{URL: "https://a.example.com", Rank: 1}}))

	_, err := cache.Get(context.Background(), keyB)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

// TestCache_Reopen tests that entries survive process restarts.
func TestCache_Reopen(t *testing.T) {
	dir := t.TempDir()
	key := driven.NewCacheKey("exa", "q", 10)
	results := []domain.Result{{URL: "https://a.example.com", Title: "a", Rank: 1}}

	cache, err := NewCache(dir, 0)
	require.NoError(t, err)
	require.NoError(t, cache.Put(context.Background(), key, results))
	require.NoError(t, cache.Close())

	reopened, err := NewCache(dir, 0)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, results, got)
}
