package driving

import (
	"context"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// Evaluator runs the full benchmark: every query against every
// registered provider, reduced into a summary.
type Evaluator interface {
	// Evaluate executes the run. A cancelled context still returns
	// the partial run and a summary over whatever records completed;
	// partial runs are valid, not fatal.
	Evaluate(ctx context.Context) (*domain.EvaluationRun, domain.Summary, error)
}

// Aggregator reduces a record collection into summary statistics.
type Aggregator interface {
	// Summarise computes per-provider and per-framework statistics
	// plus the overall ranking. Returns domain.ErrInsufficientData
	// when asked to rank an empty record set.
	Summarise(runID string, providers []string, records []domain.MetricRecord) (domain.Summary, error)
}
