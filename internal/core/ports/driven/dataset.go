package driven

import (
	"context"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// QueryLoader supplies the immutable benchmark query list, with any
// ground-truth labels already merged in. Loaders must reject queries
// carrying unrecognised framework tags so the failure surfaces before
// evaluation begins.
type QueryLoader interface {
	// LoadQueries returns the ordered query list.
	LoadQueries(ctx context.Context) ([]domain.Query, error)
}
