package services

import (
	"sort"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driving"
)

// Ensure StatsAggregator implements the interface.
var _ driving.Aggregator = (*StatsAggregator)(nil)

// StatsAggregator reduces a run's records into per-provider and
// per-framework statistics plus the overall ranking. It holds no state
// beyond its configuration; summaries are recomputable at any time
// from the raw records.
type StatsAggregator struct {
	weights domain.RankingWeights
}

// NewStatsAggregator creates an aggregator with the configured
// ranking weights.
func NewStatsAggregator(cfg domain.EvalConfig) *StatsAggregator {
	return &StatsAggregator{weights: cfg.Weights}
}

// Summarise computes the full summary. Providers with zero records are
// excluded from statistics and ranking rather than divided by zero. An
// entirely empty record set yields domain.ErrInsufficientData.
func (a *StatsAggregator) Summarise(runID string, providers []string, records []domain.MetricRecord) (domain.Summary, error) {
	if len(records) == 0 {
		return domain.Summary{}, domain.ErrInsufficientData
	}

	byProvider := make(map[string][]domain.MetricRecord)
	byFramework := make(map[domain.Framework]map[string][]domain.MetricRecord)
	for _, rec := range records {
		byProvider[rec.Provider] = append(byProvider[rec.Provider], rec)
		fw := byFramework[rec.Framework]
		if fw == nil {
			fw = make(map[string][]domain.MetricRecord)
			byFramework[rec.Framework] = fw
		}
		fw[rec.Provider] = append(fw[rec.Provider], rec)
	}

	summary := domain.Summary{
		RunID:       runID,
		Systems:     make(map[string]domain.ProviderStats, len(byProvider)),
		ByFramework: make(map[domain.Framework]map[string]domain.ProviderStats, len(byFramework)),
	}
	for name, recs := range byProvider {
		summary.Systems[name] = reduce(name, recs)
	}
	for fw, provRecs := range byFramework {
		group := make(map[string]domain.ProviderStats, len(provRecs))
		for name, recs := range provRecs {
			group[name] = reduce(name, recs)
		}
		summary.ByFramework[fw] = group
	}

	summary.Rankings = a.rank(providers, summary.Systems)
	return summary, nil
}

// rank orders providers by weighted score, best first. Iterating the
// registration-ordered provider list and using a stable sort makes
// registration order the tie-breaker.
func (a *StatsAggregator) rank(providers []string, stats map[string]domain.ProviderStats) []domain.Ranking {
	rankings := make([]domain.Ranking, 0, len(providers))
	for _, name := range providers {
		st, ok := stats[name]
		if !ok || st.Records == 0 {
			continue
		}
		score := a.weights.Deprecation*st.Deprecation.Mean +
			a.weights.Replacement*st.Replacement.Mean +
			a.weights.Authority*(st.Authority.Mean/float64(domain.TierOfficial)) +
			a.weights.Solved*st.TimeToSolution.SuccessRate
		rankings = append(rankings, domain.Ranking{Provider: name, Score: score})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
	return rankings
}

// reduce computes the statistics for one provider's record group.
func reduce(provider string, recs []domain.MetricRecord) domain.ProviderStats {
	n := len(recs)
	stats := domain.ProviderStats{Provider: provider, Records: n}

	dep := make([]float64, n)
	rep := make([]float64, n)
	auth := make([]float64, n)
	var finiteTTS []float64
	for i, rec := range recs {
		dep[i] = rec.DeprecationAtK
		rep[i] = rec.ReplacementCoverage
		auth[i] = float64(rec.AuthorityAtK)
		if rec.AuthorityAtK > stats.MaxAuthority {
			stats.MaxAuthority = rec.AuthorityAtK
		}
		if rec.Solved() {
			finiteTTS = append(finiteTTS, float64(rec.TimeToSolution))
		}
	}

	stats.Deprecation = reduceMetric(dep)
	stats.Replacement = reduceMetric(rep)
	stats.Authority = reduceMetric(auth)
	stats.TimeToSolution = domain.TTSStats{
		FiniteCount: len(finiteTTS),
		SuccessRate: float64(len(finiteTTS)) / float64(n),
	}
	if len(finiteTTS) > 0 {
		stats.TimeToSolution.Mean = mean(finiteTTS)
		stats.TimeToSolution.Median = median(finiteTTS)
	}
	return stats
}

func reduceMetric(values []float64) domain.MetricStats {
	nonZero := 0
	for _, v := range values {
		if v > 0 {
			nonZero++
		}
	}
	return domain.MetricStats{
		Mean:        mean(values),
		Median:      median(values),
		SuccessRate: float64(nonZero) / float64(len(values)),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
