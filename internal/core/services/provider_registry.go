package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/providers/anthropic"
	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/providers/exa"
	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/providers/github"
	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/providers/googlesearch"
	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/providers/stackoverflow"
	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// ProviderCredentials holds the secrets the built-in providers need.
type ProviderCredentials struct {
	ExaAPIKey       string
	GoogleAPIKey    string
	GoogleEngineID  string
	StackAppKey     string
	AnthropicAPIKey string
	GitHubToken     string
}

// ProviderOptions holds the non-secret provider tuning knobs.
type ProviderOptions struct {
	AnthropicModel string
	StackSite      string
	GitHubSearchIn string
}

// ProviderInfo describes a registered provider type for display.
type ProviderInfo struct {
	Name        string
	Description string
	Configured  bool
	MissingEnv  []string
}

// ProviderRegistry knows every built-in provider type and constructs
// the ones an evaluation run asks for.
type ProviderRegistry struct {
	creds      ProviderCredentials
	opts       ProviderOptions
	classifier *AuthorityClassifier
}

// NewProviderRegistry creates a registry over the built-in providers.
func NewProviderRegistry(creds ProviderCredentials, opts ProviderOptions, classifier *AuthorityClassifier) *ProviderRegistry {
	return &ProviderRegistry{
		creds:      creds,
		opts:       opts,
		classifier: classifier,
	}
}

// Known returns every registered provider name in registration order.
func (r *ProviderRegistry) Known() []string {
	return []string{"exa", "googlesearch", "stackoverflow", "anthropic", "github"}
}

// Describe reports each known provider and whether its credentials are set.
func (r *ProviderRegistry) Describe() []ProviderInfo {
	infos := []ProviderInfo{
		{
			Name:        "exa",
			Description: "Exa neural web search",
			Configured:  r.creds.ExaAPIKey != "",
		},
		{
			Name:        "googlesearch",
			Description: "Google Programmable Search",
			Configured:  r.creds.GoogleAPIKey != "" && r.creds.GoogleEngineID != "",
		},
		{
			Name:        "stackoverflow",
			Description: "StackExchange question and answer search",
			Configured:  true,
		},
		{
			Name:        "anthropic",
			Description: "Anthropic LLM answer engine",
			Configured:  r.creds.AnthropicAPIKey != "",
		},
		{
			Name:        "github",
			Description: "GitHub issue and pull request search",
			Configured:  r.creds.GitHubToken != "",
		},
	}
	for i := range infos {
		infos[i].MissingEnv = r.missingEnv(infos[i].Name)
	}
	return infos
}

func (r *ProviderRegistry) missingEnv(name string) []string {
	var missing []string
	switch name {
	case "exa":
		if r.creds.ExaAPIKey == "" {
			missing = append(missing, "EXA_API_KEY")
		}
	case "googlesearch":
		if r.creds.GoogleAPIKey == "" {
			missing = append(missing, "GOOGLE_SEARCH_API_KEY")
		}
		if r.creds.GoogleEngineID == "" {
			missing = append(missing, "GOOGLE_SEARCH_ENGINE_ID")
		}
	case "anthropic":
		if r.creds.AnthropicAPIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case "github":
		if r.creds.GitHubToken == "" {
			missing = append(missing, "GITHUB_TOKEN")
		}
	}
	return missing
}

// Build constructs adapters for the named providers. Unknown names and
// missing credentials fail the whole build so a run never silently
// evaluates a subset of the systems it was asked for.
func (r *ProviderRegistry) Build(ctx context.Context, names []string) ([]driven.ProviderAdapter, error) {
	adapters := make([]driven.ProviderAdapter, 0, len(names))
	for _, name := range names {
		adapter, err := r.build(ctx, name)
		if err != nil {
			for _, a := range adapters {
				_ = a.Close()
			}
			return nil, err
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}

func (r *ProviderRegistry) build(ctx context.Context, name string) (driven.ProviderAdapter, error) {
	switch name {
	case "exa":
		return exa.NewProvider(exa.Config{
			APIKey: r.creds.ExaAPIKey,
		})
	case "googlesearch":
		return googlesearch.NewProvider(ctx, googlesearch.Config{
			APIKey:   r.creds.GoogleAPIKey,
			EngineID: r.creds.GoogleEngineID,
		})
	case "stackoverflow":
		return stackoverflow.NewProvider(stackoverflow.Config{
			APIKey: r.creds.StackAppKey,
			Site:   r.opts.StackSite,
		})
	case "anthropic":
		return anthropic.NewProvider(anthropic.Config{
			APIKey: r.creds.AnthropicAPIKey,
			Model:  r.opts.AnthropicModel,
		}, r.classifier)
	case "github":
		return github.NewProvider(ctx, github.Config{
			Token:    r.creds.GitHubToken,
			SearchIn: r.opts.GitHubSearchIn,
		})
	default:
		return nil, fmt.Errorf("provider %q: %w", name, domain.ErrUnknownProvider)
	}
}
