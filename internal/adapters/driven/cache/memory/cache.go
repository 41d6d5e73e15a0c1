// Package memory provides an in-memory provider response cache.
// Useful for tests and single runs where persistence is not needed.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

// Cache is a mutex-guarded in-memory implementation of driven.ResultCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[driven.CacheKey][]domain.Result
}

// NewCache creates a new in-memory cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[driven.CacheKey][]domain.Result),
	}
}

// Get returns cached results for the key, or domain.ErrCacheMiss.
func (c *Cache) Get(_ context.Context, key driven.CacheKey) ([]domain.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	results, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	// Copy so callers cannot mutate the cached slice.
	return append([]domain.Result(nil), results...), nil
}

// Put stores results for the key, overwriting any previous entry.
func (c *Cache) Put(_ context.Context, key driven.CacheKey, results []domain.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]domain.Result(nil), results...)
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
