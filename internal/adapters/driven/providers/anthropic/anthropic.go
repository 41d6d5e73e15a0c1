// Package anthropic provides an answer-engine provider adapter backed by
// the Anthropic Messages API. The model's answer is converted into a
// ranked result list by extracting the sources it cites.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ProviderAdapter = (*Provider)(nil)

// URLClassifier scores a URL's source authority. Satisfied by the core
// authority classifier.
type URLClassifier interface {
	Classify(rawURL string) domain.AuthorityTier
}

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-haiku-20240307"
	DefaultTimeout = 120 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// maxSnippetLength bounds how much of the answer is kept per result.
	maxSnippetLength = 200

	// noSourceMarker is the answer the model is told to give when it
	// cannot cite anything trustworthy.
	noSourceMarker = "no reliable source"
)

// systemPrompt forces the model to ground its answer in citeable URLs.
const systemPrompt = `You are a software deprecation expert. You MUST include 1-3 authoritative URLs in your response.

CRITICAL REQUIREMENTS:
1. ALWAYS include at least 1 authoritative URL (official docs, vendor GitHub repos, etc.)
2. URLs MUST be real and authoritative (no generic sites, forums, or blogs)
3. Prefer: official documentation, GitHub repos/issues, vendor websites
4. If you cannot find authoritative URLs, respond EXACTLY: "no reliable source"
5. Keep response concise but include practical migration advice with each URL`

var (
	urlPattern          = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	trailingPunctuation = regexp.MustCompile(`[.,;:!?)]+$`)
)

// Config holds configuration for the Anthropic provider.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to query (default: claude-3-haiku-20240307).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls (default: 1).
	RequestsPerSecond float64
}

// Provider asks an LLM for migration guidance and scores the URLs it cites.
type Provider struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	limiter    *rate.Limiter
	classifier URLClassifier
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewProvider creates a new Anthropic answer-engine provider. The
// classifier filters cited URLs down to authoritative sources.
func NewProvider(cfg Config, classifier URLClassifier) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w: ANTHROPIC_API_KEY not set", domain.ErrMissingCredentials)
	}
	if classifier == nil {
		return nil, fmt.Errorf("anthropic: authority classifier is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1
	}

	return &Provider{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		classifier: classifier,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "anthropic"
}

// Search asks the model what replaces the queried API and synthesises a
// ranked result list from the authoritative URLs it cites. An answer
// with no citeable sources yields an empty list, not an error.
func (p *Provider) Search(ctx context.Context, queryText string, topK int) ([]domain.Result, error) {
	answer, err := p.ask(ctx, queryText)
	if err != nil {
		return nil, err
	}

	if answer == "" || strings.Contains(strings.ToLower(answer), noSourceMarker) {
		return nil, nil
	}

	cited := extractCitations(answer)
	authoritative := make([]string, 0, len(cited))
	for _, u := range cited {
		if p.classifier.Classify(u) >= domain.TierMedium {
			authoritative = append(authoritative, u)
		}
	}
	if len(authoritative) == 0 {
		return nil, nil
	}

	snippet := answer
	if len(snippet) > maxSnippetLength {
		snippet = snippet[:maxSnippetLength] + "..."
	}

	if len(authoritative) > topK {
		authoritative = authoritative[:topK]
	}
	results := make([]domain.Result, len(authoritative))
	for i, u := range authoritative {
		results[i] = domain.Result{
			URL:      u,
			Title:    fmt.Sprintf("Model recommendation %d", i+1),
			Snippet:  snippet,
			Rank:     i + 1,
			Provider: p.Name(),
		}
	}
	return results, nil
}

func (p *Provider) ask(ctx context.Context, queryText string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("anthropic: rate limit wait: %w", err)
	}

	reqBody := messagesRequest{
		Model: p.model,
		Messages: []messagesMessage{
			{Role: "user", Content: fmt.Sprintf("What replaces %s? Cite official docs if possible.", queryText)},
		},
		MaxTokens: 2000,
		System:    systemPrompt,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("anthropic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic: API error: %s", msgResp.Error.Message)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("anthropic: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, string(body))
	}

	var answer strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			answer.WriteString(block.Text)
		}
	}
	return answer.String(), nil
}

// extractCitations pulls deduplicated URLs out of the answer text,
// stripping trailing punctuation that regularly clings to cited links.
func extractCitations(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	urls := make([]string, 0, len(matches))
	for _, match := range matches {
		cleaned := trailingPunctuation.ReplaceAllString(match, "")
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		urls = append(urls, cleaned)
	}
	return urls
}

// Validate checks the API key by hitting the models endpoint.
func (p *Provider) Validate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: create ping request: %w", err)
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anthropic: API returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}
