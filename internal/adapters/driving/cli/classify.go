package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/depreval-cli/internal/core/services"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [url...]",
	Short: "Show the authority tier assigned to URLs",
	Long: `Classifies each URL against the configured authority domain lists
and prints the tier it would score in an evaluation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	classifier := services.NewAuthorityClassifier(cfg.EvalConfig())
	for _, rawURL := range args {
		info, ok := classifier.Inspect(rawURL)
		if !ok {
			return fmt.Errorf("no recognisable host in %q", rawURL)
		}
		cmd.Printf("%s\n", info.URL)
		cmd.Printf("  host: %s\n", info.Host)
		cmd.Printf("  tier: %d (%s)\n", info.Tier, info.Tier)
	}
	return nil
}
