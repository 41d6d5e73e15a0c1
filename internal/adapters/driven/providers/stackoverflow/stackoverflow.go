// Package stackoverflow provides a search provider adapter for the
// StackExchange 2.3 API.
package stackoverflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/providers/snippet"
	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ProviderAdapter = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.stackexchange.com/2.3"
	DefaultSite    = "stackoverflow"
	DefaultTimeout = 30 * time.Second

	// maxSnippetLength bounds how much answer body is kept per result.
	maxSnippetLength = 200

	// maxPageSize is the StackExchange API page size limit.
	maxPageSize = 100
)

// Config holds configuration for the StackOverflow provider.
type Config struct {
	// APIKey is the optional StackExchange app key. Raises the request
	// quota when set, anonymous access works without it.
	APIKey string

	// BaseURL is the API base URL (default: https://api.stackexchange.com/2.3).
	BaseURL string

	// Site is the StackExchange site to search (default: stackoverflow).
	Site string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls (default: 2).
	RequestsPerSecond float64
}

// Provider searches StackOverflow questions, backfilling with top-voted
// answers when the title search comes up short.
type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	site    string
	limiter *rate.Limiter
}

// questionsResponse is the StackExchange /search response format.
type questionsResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
		Body  string `json:"body"`
	} `json:"items"`
	ErrorMessage string `json:"error_message"`
}

// answersResponse is the StackExchange /answers response format.
type answersResponse struct {
	Items []struct {
		AnswerID     int64  `json:"answer_id"`
		Title        string `json:"title"`
		Body         string `json:"body"`
		BodyMarkdown string `json:"body_markdown"`
	} `json:"items"`
	ErrorMessage string `json:"error_message"`
}

// NewProvider creates a new StackOverflow search provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Site == "" {
		cfg.Site = DefaultSite
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
		site:    cfg.Site,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "stackoverflow"
}

// Search queries question titles first, then tops up from the answers
// endpoint until topK results are gathered or both endpoints run dry.
func (p *Provider) Search(ctx context.Context, queryText string, topK int) ([]domain.Result, error) {
	results, err := p.searchQuestions(ctx, queryText, topK)
	if err != nil {
		return nil, err
	}

	if len(results) < topK {
		answers, err := p.searchAnswers(ctx, queryText, topK-len(results), len(results))
		if err != nil {
			return nil, err
		}
		results = append(results, answers...)
	}

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (p *Provider) searchQuestions(ctx context.Context, queryText string, limit int) ([]domain.Result, error) {
	params := url.Values{}
	params.Set("site", p.site)
	params.Set("intitle", queryText)
	params.Set("pagesize", strconv.Itoa(pageSize(limit)))
	params.Set("sort", "relevance")
	params.Set("order", "desc")
	params.Set("filter", "withbody")

	var questionsResp questionsResponse
	if err := p.get(ctx, "/search", params, &questionsResp); err != nil {
		return nil, err
	}
	if questionsResp.ErrorMessage != "" {
		return nil, fmt.Errorf("stackoverflow: API error: %s", questionsResp.ErrorMessage)
	}

	results := make([]domain.Result, 0, len(questionsResp.Items))
	for _, item := range questionsResp.Items {
		if item.Link == "" || item.Title == "" {
			continue
		}
		results = append(results, domain.Result{
			URL:      item.Link,
			Title:    snippet.StripHTML(item.Title),
			Snippet:  truncateSnippet(item.Body),
			Rank:     len(results) + 1,
			Provider: p.Name(),
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func (p *Provider) searchAnswers(ctx context.Context, queryText string, limit, rankOffset int) ([]domain.Result, error) {
	params := url.Values{}
	params.Set("site", p.site)
	params.Set("q", queryText)
	params.Set("pagesize", strconv.Itoa(pageSize(limit)))
	params.Set("sort", "votes")
	params.Set("order", "desc")
	params.Set("filter", "withbody")

	var answersResp answersResponse
	if err := p.get(ctx, "/answers", params, &answersResp); err != nil {
		return nil, err
	}
	if answersResp.ErrorMessage != "" {
		return nil, fmt.Errorf("stackoverflow: API error: %s", answersResp.ErrorMessage)
	}

	results := make([]domain.Result, 0, len(answersResp.Items))
	for _, item := range answersResp.Items {
		if item.AnswerID == 0 {
			continue
		}
		body := item.BodyMarkdown
		if body == "" {
			body = item.Body
		}
		results = append(results, domain.Result{
			URL:      fmt.Sprintf("https://stackoverflow.com/a/%d", item.AnswerID),
			Title:    "Answer to: " + snippet.StripHTML(item.Title),
			Snippet:  truncateSnippet(body),
			Rank:     rankOffset + len(results) + 1,
			Provider: p.Name(),
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func (p *Provider) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("stackoverflow: rate limit wait: %w", err)
	}

	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		p.baseURL+path+"?"+params.Encode(),
		http.NoBody,
	)
	if err != nil {
		return fmt.Errorf("stackoverflow: create request: %w", err)
	}
	// The StackExchange API rejects clients without a User-Agent.
	req.Header.Set("User-Agent", "depreval-cli")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("stackoverflow: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stackoverflow: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("stackoverflow: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stackoverflow: API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("stackoverflow: decode response: %w", err)
	}
	return nil
}

// Validate checks the API is reachable with the configured site.
func (p *Provider) Validate(ctx context.Context) error {
	if p.site == "" {
		return fmt.Errorf("stackoverflow: site is required")
	}
	return nil
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}

func pageSize(limit int) int {
	if limit > maxPageSize {
		return maxPageSize
	}
	if limit < 1 {
		return 1
	}
	return limit
}

// truncateSnippet strips the API's HTML body down to a short plain
// text excerpt.
func truncateSnippet(body string) string {
	return snippet.Truncate(snippet.StripHTML(body), maxSnippetLength)
}
