package driven

import (
	"context"
	"strings"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// CacheKey identifies one cached provider response.
type CacheKey struct {
	// Provider is the provider's registered name.
	Provider string

	// Query is the normalised query text.
	Query string

	// TopK is the requested result count.
	TopK int
}

// NewCacheKey builds a key with the query text normalised
// (trimmed, lower-cased, inner whitespace collapsed), so equivalent
// queries share a cache entry.
func NewCacheKey(provider, queryText string, topK int) CacheKey {
	return CacheKey{
		Provider: provider,
		Query:    strings.Join(strings.Fields(strings.ToLower(queryText)), " "),
		TopK:     topK,
	}
}

// ResultCache stores provider responses keyed by (provider, query, topK).
// Implementations must be safe for concurrent use; the runner guarantees
// at most one in-flight fetch per key on top of this interface.
type ResultCache interface {
	// Get returns the cached results for the key, or domain.ErrCacheMiss.
	Get(ctx context.Context, key CacheKey) ([]domain.Result, error)

	// Put stores results for the key, overwriting any previous entry.
	Put(ctx context.Context, key CacheKey, results []domain.Result) error
}
