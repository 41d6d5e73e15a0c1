package driven

import (
	"context"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// ProviderAdapter fetches ranked results from one search/answer system.
// Each system (neural search, web search, Q&A API, LLM) implements this
// interface. Adapters own their network I/O, authentication, pagination
// and rate limiting; the core treats any non-success outcome uniformly.
type ProviderAdapter interface {
	// Name returns the provider's registered name. Stable across runs;
	// used as half of the (query id, provider name) record key.
	Name() string

	// Search returns up to topK results ordered by rank for the query
	// text. An empty slice with a nil error means the provider genuinely
	// found nothing; that is distinct from an error return.
	Search(ctx context.Context, queryText string, topK int) ([]domain.Result, error)

	// Validate checks that the provider is properly configured and its
	// credentials are present. Called once at startup so configuration
	// problems surface before any evaluation work begins.
	Validate(ctx context.Context) error

	// Close releases resources.
	Close() error
}
