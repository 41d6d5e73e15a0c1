// Package googlesearch provides a search provider adapter for Google
// Programmable Search.
package googlesearch

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ProviderAdapter = (*Provider)(nil)

// maxPageSize is the Custom Search API result limit per request.
const maxPageSize = 10

// Config holds configuration for the Google search provider.
type Config struct {
	// APIKey is the Google API key (required).
	APIKey string

	// EngineID is the Programmable Search Engine identifier (required).
	EngineID string

	// RequestsPerSecond throttles outbound calls (default: 2).
	RequestsPerSecond float64
}

// Provider performs web search through the Google Custom Search JSON API.
type Provider struct {
	service  *customsearch.Service
	engineID string
	limiter  *rate.Limiter
}

// NewProvider creates a new Google search provider.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("googlesearch: %w: GOOGLE_SEARCH_API_KEY not set", domain.ErrMissingCredentials)
	}
	if cfg.EngineID == "" {
		return nil, fmt.Errorf("googlesearch: %w: GOOGLE_SEARCH_ENGINE_ID not set", domain.ErrMissingCredentials)
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 2
	}

	service, err := customsearch.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("googlesearch: create service: %w", err)
	}

	return &Provider{
		service:  service,
		engineID: cfg.EngineID,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "googlesearch"
}

// Search pages through the Custom Search API until topK results are
// gathered or the engine runs out of matches.
func (p *Provider) Search(ctx context.Context, queryText string, topK int) ([]domain.Result, error) {
	results := make([]domain.Result, 0, topK)

	// The API is 1-indexed and caps each page at 10 items.
	for start := int64(1); len(results) < topK; {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("googlesearch: rate limit wait: %w", err)
		}

		num := int64(topK - len(results))
		if num > maxPageSize {
			num = maxPageSize
		}

		resp, err := p.service.Cse.List().
			Cx(p.engineID).
			Q(queryText).
			Num(num).
			Start(start).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("googlesearch: search request: %w", err)
		}

		if len(resp.Items) == 0 {
			break
		}

		for _, item := range resp.Items {
			if item.Link == "" || item.Title == "" {
				continue
			}
			results = append(results, domain.Result{
				URL:      item.Link,
				Title:    item.Title,
				Snippet:  item.Snippet,
				Rank:     len(results) + 1,
				Provider: p.Name(),
			})
			if len(results) == topK {
				break
			}
		}

		start += int64(len(resp.Items))
	}

	return results, nil
}

// Validate checks that the credentials are present.
func (p *Provider) Validate(ctx context.Context) error {
	if p.engineID == "" {
		return fmt.Errorf("googlesearch: %w", domain.ErrMissingCredentials)
	}
	return nil
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}
