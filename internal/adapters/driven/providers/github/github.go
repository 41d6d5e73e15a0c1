// Package github provides a search provider adapter that surfaces
// deprecation discussions from GitHub issues and pull requests.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ProviderAdapter = (*Provider)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultSearchIn scopes the issue search to titles and bodies.
	DefaultSearchIn = "title,body"

	// proactiveRate keeps well under the 30 searches/minute search quota.
	proactiveRate = 0.4

	// maxSnippetLength bounds how much issue body is kept per result.
	maxSnippetLength = 300
)

// Config holds configuration for the GitHub provider.
type Config struct {
	// Token is the GitHub personal access token (required, the search
	// API quota for anonymous clients is too small to be useful).
	Token string

	// SearchIn scopes the query qualifier (default: title,body).
	SearchIn string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Provider searches GitHub issues and pull requests for migration
// discussions around deprecated APIs.
type Provider struct {
	gh       *gh.Client
	searchIn string
	limiter  *rate.Limiter
}

// NewProvider creates a new GitHub search provider.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: %w: GITHUB_TOKEN not set", domain.ErrMissingCredentials)
	}
	if cfg.SearchIn == "" {
		cfg.SearchIn = DefaultSearchIn
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = cfg.Timeout

	return &Provider{
		gh:       gh.NewClient(tc),
		searchIn: cfg.SearchIn,
		limiter:  rate.NewLimiter(rate.Limit(proactiveRate), 1),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "github"
}

// Search runs an issue search and returns up to topK ranked results.
func (p *Provider) Search(ctx context.Context, queryText string, topK int) ([]domain.Result, error) {
	perPage := topK
	if perPage > 100 {
		perPage = 100
	}

	opts := &gh.SearchOptions{
		Sort:        "reactions",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	query := fmt.Sprintf("%s in:%s", queryText, p.searchIn)

	results := make([]domain.Result, 0, topK)
	for len(results) < topK {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("github: rate limit wait: %w", err)
		}

		searchResult, resp, err := p.gh.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, p.wrapError(err, "search issues")
		}

		for _, issue := range searchResult.Issues {
			if issue.GetHTMLURL() == "" || issue.GetTitle() == "" {
				continue
			}
			snippet := issue.GetBody()
			if len(snippet) > maxSnippetLength {
				snippet = snippet[:maxSnippetLength]
			}
			results = append(results, domain.Result{
				URL:      issue.GetHTMLURL(),
				Title:    issue.GetTitle(),
				Snippet:  snippet,
				Rank:     len(results) + 1,
				Provider: p.Name(),
			})
			if len(results) == topK {
				break
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return results, nil
}

// wrapError converts go-github errors into domain errors where possible.
func (p *Provider) wrapError(err error, op string) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("github: %s: %w", op, domain.ErrRateLimited)
	}
	return fmt.Errorf("github: %s: %w", op, err)
}

// Validate checks the token by requesting the rate limit, which costs
// no search quota.
func (p *Provider) Validate(ctx context.Context) error {
	_, resp, err := p.gh.RateLimit.Get(ctx)
	if err != nil {
		return fmt.Errorf("github: validate token: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("github: %w", domain.ErrMissingCredentials)
	}
	return nil
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}
