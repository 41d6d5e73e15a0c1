// Package exa provides a search provider adapter for the Exa neural search API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ProviderAdapter = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.exa.ai"
	DefaultTimeout = 30 * time.Second

	// maxSnippetLength bounds how much page text is kept per result.
	maxSnippetLength = 500
)

// Config holds configuration for the Exa provider.
type Config struct {
	// APIKey is the Exa API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.exa.ai).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls (default: 2).
	RequestsPerSecond float64
}

// Provider performs neural web search through the Exa REST API.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// searchRequest is the Exa /search request format.
type searchRequest struct {
	Query      string          `json:"query"`
	NumResults int             `json:"numResults"`
	Contents   contentsRequest `json:"contents"`
}

type contentsRequest struct {
	Text bool `json:"text"`
}

// searchResponse is the Exa /search response format.
type searchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

// NewProvider creates a new Exa search provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("exa: %w: EXA_API_KEY not set", domain.ErrMissingCredentials)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 2
	}

	return &Provider{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "exa"
}

// Search runs a neural search and returns up to topK ranked results.
func (p *Provider) Search(ctx context.Context, queryText string, topK int) ([]domain.Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("exa: rate limit wait: %w", err)
	}

	reqBody := searchRequest{
		Query:      queryText,
		NumResults: topK,
		Contents:   contentsRequest{Text: true},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("exa: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/search",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("exa: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("exa: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("exa: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa: API returned status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("exa: decode response: %w", err)
	}

	results := make([]domain.Result, 0, len(searchResp.Results))
	for _, entry := range searchResp.Results {
		// Entries without a URL or title cannot be scored for authority.
		if entry.URL == "" || entry.Title == "" {
			continue
		}
		snippet := entry.Text
		if len(snippet) > maxSnippetLength {
			snippet = snippet[:maxSnippetLength]
		}
		results = append(results, domain.Result{
			URL:      entry.URL,
			Title:    entry.Title,
			Snippet:  snippet,
			Rank:     len(results) + 1,
			Provider: p.Name(),
		})
		if len(results) == topK {
			break
		}
	}

	return results, nil
}

// Validate checks that the API key is present.
func (p *Provider) Validate(ctx context.Context) error {
	if p.apiKey == "" {
		return fmt.Errorf("exa: %w", domain.ErrMissingCredentials)
	}
	return nil
}

// Close releases resources.
func (p *Provider) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
