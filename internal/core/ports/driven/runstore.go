package driven

import (
	"context"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// StoredRun is a persisted evaluation run: its identity plus the raw
// per-(query, provider) records. Summaries are derived data and are
// recomputed from the records rather than stored.
type StoredRun struct {
	// ID is the timestamp-derived run identifier.
	ID string

	// Queries is the number of queries the run covered.
	Queries int

	// Providers lists providers in registration order.
	Providers []string

	// Records holds every metric record of the run.
	Records []domain.MetricRecord
}

// RunStore persists evaluation runs for later reporting.
type RunStore interface {
	// SaveRun writes a run and all its records. Saving an existing
	// run id replaces its records.
	SaveRun(ctx context.Context, run StoredRun) error

	// GetRun returns a run by id, or domain.ErrNotFound.
	GetRun(ctx context.Context, id string) (StoredRun, error)

	// ListRuns returns stored run ids, newest first.
	ListRuns(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}
