package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

func testRegistry(creds ProviderCredentials) *ProviderRegistry {
	classifier := NewAuthorityClassifier(domain.DefaultConfig())
	return NewProviderRegistry(creds, ProviderOptions{}, classifier)
}

// TestProviderRegistry_Build tests constructing configured providers.
func TestProviderRegistry_Build(t *testing.T) {
	registry := testRegistry(ProviderCredentials{
		ExaAPIKey:       "exa-key",
		AnthropicAPIKey: "anthropic-key",
	})

	adapters, err := registry.Build(context.Background(), []string{"exa", "stackoverflow", "anthropic"})
	require.NoError(t, err)
	require.Len(t, adapters, 3)
	assert.Equal(t, "exa", adapters[0].Name())
	assert.Equal(t, "stackoverflow", adapters[1].Name())
	assert.Equal(t, "anthropic", adapters[2].Name())
}

// TestProviderRegistry_Build_UnknownProvider tests the unknown name error.
func TestProviderRegistry_Build_UnknownProvider(t *testing.T) {
	registry := testRegistry(ProviderCredentials{})

	_, err := registry.Build(context.Background(), []string{"altavista"})
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

// TestProviderRegistry_Build_MissingCredentials tests that a provider
// without its key fails the whole build.
func TestProviderRegistry_Build_MissingCredentials(t *testing.T) {
	registry := testRegistry(ProviderCredentials{})

	_, err := registry.Build(context.Background(), []string{"exa"})
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

// TestProviderRegistry_Describe tests the credential status report.
func TestProviderRegistry_Describe(t *testing.T) {
	registry := testRegistry(ProviderCredentials{ExaAPIKey: "exa-key"})

	infos := registry.Describe()
	require.Len(t, infos, 5)

	byName := make(map[string]ProviderInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	assert.True(t, byName["exa"].Configured)
	assert.Empty(t, byName["exa"].MissingEnv)

	// StackOverflow works anonymously.
	assert.True(t, byName["stackoverflow"].Configured)

	assert.False(t, byName["googlesearch"].Configured)
	assert.ElementsMatch(t, []string{"GOOGLE_SEARCH_API_KEY", "GOOGLE_SEARCH_ENGINE_ID"}, byName["googlesearch"].MissingEnv)

	assert.False(t, byName["github"].Configured)
	assert.Equal(t, []string{"GITHUB_TOKEN"}, byName["github"].MissingEnv)
}

// TestProviderRegistry_Known tests registration order, which breaks
// ranking ties.
func TestProviderRegistry_Known(t *testing.T) {
	registry := testRegistry(ProviderCredentials{})
	assert.Equal(t, []string{"exa", "googlesearch", "stackoverflow", "anthropic", "github"}, registry.Known())
}
