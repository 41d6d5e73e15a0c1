package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	cachesqlite "github.com/custodia-labs/depreval-cli/internal/adapters/driven/cache/sqlite"
	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/dataset/jsonl"
	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/report/markdown"
	runsqlite "github.com/custodia-labs/depreval-cli/internal/adapters/driven/runstore/sqlite"
	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
	"github.com/custodia-labs/depreval-cli/internal/core/services"
	"github.com/custodia-labs/depreval-cli/internal/logger"
)

var (
	evalProviders   []string
	evalQueries     string
	evalLabels      string
	evalTopK        int
	evalConcurrency int
	evalNoCache     bool
	evalReportDir   string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the evaluation across all enabled providers",
	Long: `Sends every query in the dataset to every enabled provider,
scores the responses, persists the run, and writes a markdown report.

Interrupting a run (Ctrl-C) stops dispatching new queries but still
aggregates and persists the records completed so far.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringSliceVar(&evalProviders, "providers", nil, "providers to evaluate (default: all enabled)")
	evalCmd.Flags().StringVar(&evalQueries, "queries", "", "path to queries.jsonl")
	evalCmd.Flags().StringVar(&evalLabels, "labels", "", "path to labels.jsonl")
	evalCmd.Flags().IntVarP(&evalTopK, "top-k", "k", 0, "results to score per query")
	evalCmd.Flags().IntVar(&evalConcurrency, "concurrency", 0, "parallel query/provider pairs")
	evalCmd.Flags().BoolVar(&evalNoCache, "no-cache", false, "bypass the provider response cache")
	evalCmd.Flags().StringVar(&evalReportDir, "report-dir", "", "directory for markdown reports")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	evalCfg := cfg.EvalConfig()
	if evalTopK > 0 {
		evalCfg.TopK = evalTopK
	}
	if evalConcurrency > 0 {
		evalCfg.Concurrency = evalConcurrency
	}

	engine := services.NewMetricsEngine(evalCfg)
	registry := newRegistry(cfg, engine.Classifier())

	names := evalProviders
	if len(names) == 0 {
		names = cfg.EnabledProviders()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	adapters, err := registry.Build(ctx, names)
	if err != nil {
		return err
	}
	defer func() {
		for _, a := range adapters {
			_ = a.Close()
		}
	}()

	var cache driven.ResultCache
	if !evalNoCache {
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		sqlCache, err := cachesqlite.NewCache(cfg.CacheDir(), ttl)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer sqlCache.Close()
		cache = sqlCache
	}

	store, err := runsqlite.NewStore(cfg.DataDir())
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	loader := jsonl.NewLoader(queriesPath(cfg), labelsPath(cfg))
	runner := services.NewProviderRunner(engine, cache, evalCfg.TopK)
	agg := services.NewStatsAggregator(evalCfg)
	orch := services.NewOrchestrator(evalCfg, runner, adapters, loader, store, agg)

	run, summary, err := orch.Evaluate(ctx)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	renderer := markdown.NewRenderer(reportDir(cfg))
	reportPath, err := renderer.Write(summary)
	if err != nil {
		return err
	}

	printRunResult(cmd, run, summary, reportPath)
	return nil
}

func printRunResult(cmd *cobra.Command, run *domain.EvaluationRun, summary domain.Summary, reportPath string) {
	cmd.Printf("Run %s: %d records\n\n", run.ID, run.Len())

	if len(summary.Rankings) > 0 {
		cmd.Println("Rankings:")
		for i, r := range summary.Rankings {
			cmd.Printf("  %d. %s (%.3f)\n", i+1, r.Provider, r.Score)
		}
		cmd.Println()
	}

	cmd.Printf("Report: %s\n", reportPath)
	if !run.Complete() {
		logger.Warn("Run is incomplete; rerun to fill the remaining cells")
	}
}

func queriesPath(cfg *file.Config) string {
	if evalQueries != "" {
		return evalQueries
	}
	if cfg.Dataset.Queries != "" {
		return cfg.Dataset.Queries
	}
	return filepath.Join("data", "queries.jsonl")
}

func labelsPath(cfg *file.Config) string {
	if evalLabels != "" {
		return evalLabels
	}
	if cfg.Dataset.Labels != "" {
		return cfg.Dataset.Labels
	}
	return filepath.Join("data", "labels.jsonl")
}

func reportDir(cfg *file.Config) string {
	if evalReportDir != "" {
		return evalReportDir
	}
	return filepath.Join(cfg.DataDir(), "reports")
}
