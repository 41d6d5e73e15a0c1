package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/depreval-cli/internal/core/services"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the built-in providers and their credential status",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	classifier := services.NewAuthorityClassifier(cfg.EvalConfig())
	registry := newRegistry(cfg, classifier)

	enabled := make(map[string]bool)
	for _, name := range cfg.EnabledProviders() {
		enabled[name] = true
	}

	cmd.Println("Providers:")
	cmd.Println()
	for _, info := range registry.Describe() {
		status := "ready"
		switch {
		case !info.Configured:
			status = "missing " + strings.Join(info.MissingEnv, ", ")
		case !enabled[info.Name]:
			status = "disabled"
		}
		cmd.Printf("  %-14s %s (%s)\n", info.Name, info.Description, status)
	}
	return nil
}
