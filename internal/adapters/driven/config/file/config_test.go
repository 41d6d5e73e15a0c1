package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// TestLoad_MissingFile tests that an absent config file yields defaults.
func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	evalCfg := cfg.EvalConfig()
	assert.Equal(t, 10, evalCfg.TopK)
	assert.Equal(t, domain.TierMedium, evalCfg.MinAuthority)
	assert.Equal(t, 4, evalCfg.Concurrency)
	assert.NotEmpty(t, evalCfg.DeprecationPatterns)
	assert.Equal(t, []string{"exa", "googlesearch", "stackoverflow", "anthropic", "github"}, cfg.EnabledProviders())
}

// TestLoad_Overrides tests that file values override the defaults.
func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[eval]
top_k = 5
min_authority = 3
concurrency = 2

[eval.weights]
deprecation = 0.4
replacement = 0.3
authority = 0.2
solved = 0.1

[patterns]
deprecation = ["\\bobsolete\\b"]

[authority]
official = ["^internal-docs\\.example"]

[providers]
enabled = ["exa", "github"]

[providers.anthropic]
model = "claude-sonnet-4-20250514"

[dataset]
queries = "/data/custom-queries.jsonl"

[cache]
ttl_hours = 24
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	evalCfg := cfg.EvalConfig()
	assert.Equal(t, 5, evalCfg.TopK)
	assert.Equal(t, domain.TierOfficial, evalCfg.MinAuthority)
	assert.Equal(t, 2, evalCfg.Concurrency)
	assert.Equal(t, 0.4, evalCfg.Weights.Deprecation)
	assert.Equal(t, []string{`\bobsolete\b`}, evalCfg.DeprecationPatterns)
	assert.Equal(t, []string{`^internal-docs\.example`}, evalCfg.OfficialDomains)
	// Untouched sections keep their defaults.
	assert.NotEmpty(t, evalCfg.ReplacementPatterns)
	assert.NotEmpty(t, evalCfg.CommunityDomains)

	assert.Equal(t, []string{"exa", "github"}, cfg.EnabledProviders())
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Providers.Anthropic.Model)
	assert.Equal(t, "/data/custom-queries.jsonl", cfg.Dataset.Queries)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
}

// TestLoad_Secrets tests that credentials come from the environment
// and never serialise back to disk.
func TestLoad_Secrets(t *testing.T) {
	t.Setenv("EXA_API_KEY", "exa-secret")
	t.Setenv("GITHUB_TOKEN", "gh-secret")

	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "exa-secret", cfg.Secrets.ExaAPIKey)
	assert.Equal(t, "gh-secret", cfg.Secrets.GitHubToken)

	require.NoError(t, cfg.Save())
	data, err := os.ReadFile(cfg.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "exa-secret")
	assert.NotContains(t, string(data), "gh-secret")
}

// TestSave_Permissions tests the restrictive config file mode.
func TestSave_Permissions(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// TestConfig_Dirs tests the cache and data directory resolution.
func TestConfig_Dirs(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cache"), cfg.CacheDir())
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir())

	cfg.Cache.Dir = "/tmp/elsewhere"
	assert.Equal(t, "/tmp/elsewhere", cfg.CacheDir())
}

// TestLoad_BadTOML tests the parse error path.
func TestLoad_BadTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}
