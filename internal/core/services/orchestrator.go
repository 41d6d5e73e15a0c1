package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driving"
	"github.com/custodia-labs/depreval-cli/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.Evaluator = (*Orchestrator)(nil)

// Orchestrator runs every query against every registered provider and
// gathers the records into one evaluation run. Pairs are mutually
// independent, so they fan out onto a bounded worker set and fan back
// into the run's record collection; execution order never affects the
// result. The concurrency bound exists to respect external API rate
// limits rather than for throughput.
type Orchestrator struct {
	cfg       domain.EvalConfig
	runner    *ProviderRunner
	providers []driven.ProviderAdapter
	loader    driven.QueryLoader
	runStore  driven.RunStore
	agg       driving.Aggregator

	// now is swappable for tests.
	now func() time.Time
}

// NewOrchestrator wires the evaluation pipeline. The run store is
// optional (nil disables persistence).
func NewOrchestrator(
	cfg domain.EvalConfig,
	runner *ProviderRunner,
	providers []driven.ProviderAdapter,
	loader driven.QueryLoader,
	runStore driven.RunStore,
	agg driving.Aggregator,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		runner:    runner,
		providers: providers,
		loader:    loader,
		runStore:  runStore,
		agg:       agg,
		now:       time.Now,
	}
}

// Evaluate executes the full run.
//
// Configuration problems (no providers, unknown framework tags, missing
// credentials) are fatal and surface here, before any pair is
// dispatched. After that point individual provider failures only
// degrade their own cell; a cancelled context stops dispatching new
// pairs but still reduces and returns whatever records completed.
func (o *Orchestrator) Evaluate(ctx context.Context) (*domain.EvaluationRun, domain.Summary, error) {
	queries, err := o.validate(ctx)
	if err != nil {
		return nil, domain.Summary{}, err
	}

	names := make([]string, len(o.providers))
	for i, p := range o.providers {
		names[i] = p.Name()
	}

	run := domain.NewEvaluationRun(o.now(), len(queries), names)
	logger.Section("Evaluation")
	logger.Info("Run %s: %d queries x %d providers, k=%d, concurrency=%d",
		run.ID, len(queries), len(o.providers), o.cfg.TopK, o.cfg.Concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Concurrency)

	for _, q := range queries {
		for _, p := range o.providers {
			q, p := q, p
			g.Go(func() error {
				if gctx.Err() != nil {
					// Cancelled before dispatch: record the cell as
					// failed so completed counts stay meaningful.
					run.Add(domain.FailedRecord(q, p.Name(), gctx.Err().Error()))
					return nil
				}
				run.Add(o.runner.Run(gctx, q, p))
				return nil
			})
		}
	}
	// Workers never return errors; failures live in their records.
	_ = g.Wait()

	if ctx.Err() != nil {
		logger.Warn("Run %s cancelled after %d/%d records", run.ID, run.Len(), len(queries)*len(o.providers))
	}

	if o.runStore != nil {
		stored := driven.StoredRun{
			ID:        run.ID,
			Queries:   run.Queries,
			Providers: run.Providers,
			Records:   run.Records(),
		}
		if err := o.runStore.SaveRun(ctx, stored); err != nil {
			logger.Warn("Persisting run %s failed: %v", run.ID, err)
		}
	}

	summary, err := o.agg.Summarise(run.ID, run.Providers, run.Records())
	if err != nil {
		return run, domain.Summary{}, fmt.Errorf("aggregate run %s: %w", run.ID, err)
	}
	return run, summary, nil
}

// validate performs the startup checks and loads the query set.
func (o *Orchestrator) validate(ctx context.Context) ([]domain.Query, error) {
	if len(o.providers) == 0 {
		return nil, fmt.Errorf("no providers registered: %w", domain.ErrInvalidInput)
	}
	if o.cfg.TopK <= 0 {
		return nil, fmt.Errorf("top-k must be positive: %w", domain.ErrInvalidInput)
	}
	if o.cfg.Concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive: %w", domain.ErrInvalidInput)
	}

	for _, p := range o.providers {
		if err := p.Validate(ctx); err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.Name(), err)
		}
	}

	queries, err := o.loader.LoadQueries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load queries: %w", err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("query set is empty: %w", domain.ErrInvalidInput)
	}
	for _, q := range queries {
		if !q.Framework.IsValid() {
			return nil, fmt.Errorf("query %s: %q: %w", q.ID, q.Framework, domain.ErrUnknownFramework)
		}
	}
	return queries, nil
}
