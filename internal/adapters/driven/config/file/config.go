package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// Config is the on-disk configuration. Every field is optional; zero
// values fall back to the defaults in domain.DefaultConfig.
type Config struct {
	Eval      EvalSection      `toml:"eval"`
	Patterns  PatternsSection  `toml:"patterns"`
	Authority AuthoritySection `toml:"authority"`
	Providers ProvidersSection `toml:"providers"`
	Dataset   DatasetSection   `toml:"dataset"`
	Cache     CacheSection     `toml:"cache"`

	// Secrets holds credentials read from the environment. Never
	// serialised back to the config file.
	Secrets Secrets `toml:"-"`

	path string
}

// EvalSection configures the evaluation window and scheduling.
type EvalSection struct {
	TopK         int            `toml:"top_k"`
	MinAuthority int            `toml:"min_authority"`
	Concurrency  int            `toml:"concurrency"`
	Weights      WeightsSection `toml:"weights"`
}

// WeightsSection configures the overall ranking score.
type WeightsSection struct {
	Deprecation float64 `toml:"deprecation"`
	Replacement float64 `toml:"replacement"`
	Authority   float64 `toml:"authority"`
	Solved      float64 `toml:"solved"`
}

// PatternsSection overrides the heuristic pattern sets.
type PatternsSection struct {
	Deprecation []string `toml:"deprecation"`
	Replacement []string `toml:"replacement"`
}

// AuthoritySection overrides the tier domain lists.
type AuthoritySection struct {
	Official  []string `toml:"official"`
	Community []string `toml:"community"`
}

// ProvidersSection selects and tunes the evaluated systems.
type ProvidersSection struct {
	// Enabled lists provider names in registration order. Order
	// breaks ranking ties.
	Enabled []string `toml:"enabled"`

	Anthropic     AnthropicSection     `toml:"anthropic"`
	StackOverflow StackOverflowSection `toml:"stackoverflow"`
	GitHub        GitHubSection        `toml:"github"`
}

// AnthropicSection tunes the LLM baseline.
type AnthropicSection struct {
	Model string `toml:"model"`
}

// StackOverflowSection tunes the StackExchange baseline.
type StackOverflowSection struct {
	Site string `toml:"site"`
}

// GitHubSection tunes the code-hosting baseline.
type GitHubSection struct {
	// SearchIn restricts issue search, e.g. "title,body".
	SearchIn string `toml:"search_in"`
}

// DatasetSection locates the query and label files.
type DatasetSection struct {
	Queries string `toml:"queries"`
	Labels  string `toml:"labels"`
}

// CacheSection configures the provider response cache.
type CacheSection struct {
	// Dir is the cache directory. Empty uses <config dir>/cache.
	Dir string `toml:"dir"`

	// TTLHours expires cached responses. Zero means never.
	TTLHours int `toml:"ttl_hours"`
}

// Secrets are provider credentials from the environment.
type Secrets struct {
	ExaAPIKey       string
	GoogleAPIKey    string
	GoogleEngineID  string
	StackAppKey     string
	AnthropicAPIKey string
	GitHubToken     string
}

// Load reads the configuration. If configDir is empty it defaults to
// ~/.depreval. A missing config file is not an error; the defaults
// apply. Environment secrets are loaded afterwards, with a .env file
// in the working directory honoured when present.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".depreval")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	cfg := &Config{path: filepath.Join(configDir, "config.toml")}

	data, err := os.ReadFile(cfg.path)
	switch {
	case os.IsNotExist(err):
		// No config file yet - that's fine, start with defaults
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", cfg.path, err)
		}
	}

	cfg.loadSecrets()
	return cfg, nil
}

// loadSecrets reads provider credentials from the environment.
// A .env file is merged in first without overriding real env vars.
func (c *Config) loadSecrets() {
	_ = godotenv.Load()

	c.Secrets = Secrets{
		ExaAPIKey:       os.Getenv("EXA_API_KEY"),
		GoogleAPIKey:    os.Getenv("GOOGLE_SEARCH_API_KEY"),
		GoogleEngineID:  os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
		StackAppKey:     os.Getenv("STACKOVERFLOW_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
	}
}

// Save writes the configuration back to disk with restricted
// permissions. Secrets are excluded by construction.
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(c.path, data, 0600)
}

// Path returns the configuration file path.
func (c *Config) Path() string {
	return c.path
}

// CacheDir returns the resolved cache directory.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(filepath.Dir(c.path), "cache")
}

// DataDir returns the directory for run persistence.
func (c *Config) DataDir() string {
	return filepath.Join(filepath.Dir(c.path), "data")
}

// EvalConfig merges the file's overrides onto the defaults and
// returns the immutable configuration the core components take.
func (c *Config) EvalConfig() domain.EvalConfig {
	cfg := domain.DefaultConfig()

	if c.Eval.TopK > 0 {
		cfg.TopK = c.Eval.TopK
	}
	if c.Eval.MinAuthority > 0 {
		cfg.MinAuthority = domain.AuthorityTier(c.Eval.MinAuthority)
	}
	if c.Eval.Concurrency > 0 {
		cfg.Concurrency = c.Eval.Concurrency
	}
	if w := c.Eval.Weights; w.Deprecation+w.Replacement+w.Authority+w.Solved > 0 {
		cfg.Weights = domain.RankingWeights{
			Deprecation: w.Deprecation,
			Replacement: w.Replacement,
			Authority:   w.Authority,
			Solved:      w.Solved,
		}
	}
	if len(c.Patterns.Deprecation) > 0 {
		cfg.DeprecationPatterns = c.Patterns.Deprecation
	}
	if len(c.Patterns.Replacement) > 0 {
		cfg.ReplacementPatterns = c.Patterns.Replacement
	}
	if len(c.Authority.Official) > 0 {
		cfg.OfficialDomains = c.Authority.Official
	}
	if len(c.Authority.Community) > 0 {
		cfg.CommunityDomains = c.Authority.Community
	}
	return cfg
}

// EnabledProviders returns the configured provider list, defaulting to
// every built-in provider in the standard order.
func (c *Config) EnabledProviders() []string {
	if len(c.Providers.Enabled) > 0 {
		return c.Providers.Enabled
	}
	return []string{"exa", "googlesearch", "stackoverflow", "anthropic", "github"}
}
