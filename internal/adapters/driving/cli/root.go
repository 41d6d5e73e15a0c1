// Package cli implements the depreval command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/depreval-cli/internal/core/services"
	"github.com/custodia-labs/depreval-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "depreval",
	Short: "Benchmark search systems on deprecation guidance",
	Long: `depreval evaluates how well search and answer systems surface
deprecation notices and replacement guidance for framework APIs.

Each run sends a labelled query set to every enabled provider and
scores the top-k results on four metrics: deprecation language,
replacement coverage, source authority, and time-to-solution.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.depreval)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*file.Config, error) {
	cfg, err := file.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newRegistry builds the provider registry from the loaded config.
func newRegistry(cfg *file.Config, classifier *services.AuthorityClassifier) *services.ProviderRegistry {
	creds := services.ProviderCredentials{
		ExaAPIKey:       cfg.Secrets.ExaAPIKey,
		GoogleAPIKey:    cfg.Secrets.GoogleAPIKey,
		GoogleEngineID:  cfg.Secrets.GoogleEngineID,
		StackAppKey:     cfg.Secrets.StackAppKey,
		AnthropicAPIKey: cfg.Secrets.AnthropicAPIKey,
		GitHubToken:     cfg.Secrets.GitHubToken,
	}
	opts := services.ProviderOptions{
		AnthropicModel: cfg.Providers.Anthropic.Model,
		StackSite:      cfg.Providers.StackOverflow.Site,
		GitHubSearchIn: cfg.Providers.GitHub.SearchIn,
	}
	return services.NewProviderRegistry(creds, opts, classifier)
}
