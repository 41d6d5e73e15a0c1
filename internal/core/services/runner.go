package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
	"github.com/custodia-labs/depreval-cli/internal/logger"
)

// ProviderRunner evaluates one (query, provider) pair: it obtains the
// result list through the cache, then hands it to the metrics engine.
// A provider failure is downgraded to a record with default metric
// values and a failure annotation; the runner never propagates provider
// errors, so the orchestrator's one-record-per-pair invariant holds
// unconditionally.
type ProviderRunner struct {
	engine *MetricsEngine
	cache  driven.ResultCache
	topK   int

	// group collapses concurrent fetches for the same cache key into
	// a single provider call.
	group singleflight.Group
}

// NewProviderRunner creates a runner. The cache may be nil, in which
// case every pair hits the provider directly.
func NewProviderRunner(engine *MetricsEngine, cache driven.ResultCache, topK int) *ProviderRunner {
	return &ProviderRunner{
		engine: engine,
		cache:  cache,
		topK:   topK,
	}
}

// Run produces the metric record for the pair. Always returns a record.
func (r *ProviderRunner) Run(ctx context.Context, q domain.Query, provider driven.ProviderAdapter) domain.MetricRecord {
	results, err := r.fetch(ctx, q, provider)
	if err != nil {
		logger.Warn("Provider %s failed for query %s: %v", provider.Name(), q.ID, err)
		return domain.FailedRecord(q, provider.Name(), err.Error())
	}
	return r.engine.Evaluate(q, provider.Name(), results)
}

// fetch returns the provider's results, consulting the cache first.
// At most one fetch per key is in flight at a time.
func (r *ProviderRunner) fetch(ctx context.Context, q domain.Query, provider driven.ProviderAdapter) ([]domain.Result, error) {
	if r.cache == nil {
		return provider.Search(ctx, q.Text, r.topK)
	}

	key := driven.NewCacheKey(provider.Name(), q.Text, r.topK)
	flightKey := fmt.Sprintf("%s|%s|%d", key.Provider, key.Query, key.TopK)

	v, err, _ := r.group.Do(flightKey, func() (any, error) {
		cached, err := r.cache.Get(ctx, key)
		if err == nil {
			logger.Debug("Cache hit: %s / %s", key.Provider, q.ID)
			return cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn("Cache read error for %s / %s: %v", key.Provider, q.ID, err)
		}

		results, err := provider.Search(ctx, q.Text, r.topK)
		if err != nil {
			return nil, err
		}
		if putErr := r.cache.Put(ctx, key, results); putErr != nil {
			// A cache write failure degrades caching, not the run.
			logger.Warn("Cache write failed for %s / %s: %v", key.Provider, q.ID, putErr)
		}
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Result), nil
}
