package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	runsqlite "github.com/custodia-labs/depreval-cli/internal/adapters/driven/runstore/sqlite"
	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/report/markdown"
	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/services"
)

var reportWrite bool

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Re-aggregate a stored run and print its report",
	Long: `Recomputes the summary for a persisted run and prints the markdown
report. With no argument the most recent run is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored run identifiers",
	RunE:  runReportList,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWrite, "write", false, "write the report file instead of printing")
	reportCmd.AddCommand(reportListCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := runsqlite.NewStore(cfg.DataDir())
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	runID := ""
	if len(args) > 0 {
		runID = args[0]
	} else {
		ids, err := store.ListRuns(ctx)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(ids) == 0 {
			return errors.New("no stored runs; run `depreval eval` first")
		}
		runID = ids[0]
	}

	stored, err := store.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", runID)
		}
		return fmt.Errorf("load run %s: %w", runID, err)
	}

	agg := services.NewStatsAggregator(cfg.EvalConfig())
	summary, err := agg.Summarise(stored.ID, stored.Providers, stored.Records)
	if err != nil {
		return fmt.Errorf("aggregate run %s: %w", stored.ID, err)
	}

	renderer := markdown.NewRenderer(reportDir(cfg))
	if reportWrite {
		path, err := renderer.Write(summary)
		if err != nil {
			return err
		}
		cmd.Printf("Report: %s\n", path)
		return nil
	}

	cmd.Print(renderer.Render(summary))
	return nil
}

func runReportList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := runsqlite.NewStore(cfg.DataDir())
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	ids, err := store.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(ids) == 0 {
		cmd.Println("No stored runs.")
		return nil
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}
