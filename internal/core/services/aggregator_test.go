package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

func record(provider string, fw domain.Framework, dep, rep float64, auth domain.AuthorityTier, tts int) domain.MetricRecord {
	return domain.MetricRecord{
		QueryID:             "q",
		Framework:           fw,
		Provider:            provider,
		DeprecationAtK:      dep,
		ReplacementCoverage: rep,
		AuthorityAtK:        auth,
		TimeToSolution:      tts,
		ResultCount:         10,
		Outcome:             domain.OutcomeOK,
	}
}

// TestStatsAggregator_Summarise tests per-provider reduction of all
// four metrics.
func TestStatsAggregator_Summarise(t *testing.T) {
	agg := NewStatsAggregator(domain.DefaultConfig())

	records := []domain.MetricRecord{
		record("exa", domain.FrameworkReact, 0.8, 0.6, domain.TierOfficial, 1),
		record("exa", domain.FrameworkReact, 0.4, 0.2, domain.TierMedium, 3),
		record("exa", domain.FrameworkVue, 0.0, 0.0, domain.TierLow, domain.UnsolvedRank),
	}

	summary, err := agg.Summarise("run1", []string{"exa"}, records)
	require.NoError(t, err)

	assert.Equal(t, "run1", summary.RunID)
	stats := summary.Systems["exa"]
	assert.Equal(t, 3, stats.Records)

	assert.InDelta(t, 0.4, stats.Deprecation.Mean, 1e-9)
	assert.InDelta(t, 0.4, stats.Deprecation.Median, 1e-9)
	assert.InDelta(t, 2.0/3.0, stats.Deprecation.SuccessRate, 1e-9)

	assert.InDelta(t, 2.0, stats.Authority.Mean, 1e-9)
	assert.Equal(t, domain.TierOfficial, stats.MaxAuthority)

	// Unsolved records stay out of the mean and median but count in
	// the success rate denominator.
	assert.Equal(t, 2, stats.TimeToSolution.FiniteCount)
	assert.InDelta(t, 2.0/3.0, stats.TimeToSolution.SuccessRate, 1e-9)
	assert.InDelta(t, 2.0, stats.TimeToSolution.Mean, 1e-9)
	assert.InDelta(t, 2.0, stats.TimeToSolution.Median, 1e-9)
}

// TestStatsAggregator_Summarise_ByFramework tests the per-framework
// breakdown.
func TestStatsAggregator_Summarise_ByFramework(t *testing.T) {
	agg := NewStatsAggregator(domain.DefaultConfig())

	records := []domain.MetricRecord{
		record("exa", domain.FrameworkReact, 1.0, 1.0, domain.TierOfficial, 1),
		record("exa", domain.FrameworkVue, 0.0, 0.0, domain.TierLow, domain.UnsolvedRank),
		record("github", domain.FrameworkReact, 0.5, 0.5, domain.TierMedium, 2),
	}

	summary, err := agg.Summarise("run1", []string{"exa", "github"}, records)
	require.NoError(t, err)

	require.Len(t, summary.ByFramework, 2)
	react := summary.ByFramework[domain.FrameworkReact]
	require.Len(t, react, 2)
	assert.Equal(t, 1.0, react["exa"].Deprecation.Mean)
	assert.Equal(t, 0.5, react["github"].Deprecation.Mean)

	vue := summary.ByFramework[domain.FrameworkVue]
	require.Len(t, vue, 1)
	assert.Equal(t, 1, vue["exa"].Records)
}

// TestStatsAggregator_Summarise_Rankings tests the weighted score and
// ordering.
func TestStatsAggregator_Summarise_Rankings(t *testing.T) {
	agg := NewStatsAggregator(domain.DefaultConfig())

	records := []domain.MetricRecord{
		record("weak", domain.FrameworkReact, 0.2, 0.2, domain.TierLow, domain.UnsolvedRank),
		record("strong", domain.FrameworkReact, 1.0, 1.0, domain.TierOfficial, 1),
	}

	summary, err := agg.Summarise("run1", []string{"weak", "strong"}, records)
	require.NoError(t, err)

	require.Len(t, summary.Rankings, 2)
	assert.Equal(t, "strong", summary.Rankings[0].Provider)
	// 0.25*1 + 0.25*1 + 0.25*(3/3) + 0.25*1
	assert.InDelta(t, 1.0, summary.Rankings[0].Score, 1e-9)
	// 0.25*0.2 + 0.25*0.2 + 0.25*(1/3) + 0.25*0
	assert.InDelta(t, 0.1+0.25/3.0, summary.Rankings[1].Score, 1e-9)
}

// TestStatsAggregator_Summarise_TieBreak tests that equal scores keep
// provider registration order.
func TestStatsAggregator_Summarise_TieBreak(t *testing.T) {
	agg := NewStatsAggregator(domain.DefaultConfig())

	records := []domain.MetricRecord{
		record("second", domain.FrameworkReact, 0.5, 0.5, domain.TierMedium, 1),
		record("first", domain.FrameworkReact, 0.5, 0.5, domain.TierMedium, 1),
	}

	summary, err := agg.Summarise("run1", []string{"first", "second"}, records)
	require.NoError(t, err)

	require.Len(t, summary.Rankings, 2)
	assert.Equal(t, "first", summary.Rankings[0].Provider)
	assert.Equal(t, "second", summary.Rankings[1].Provider)
	assert.Equal(t, summary.Rankings[0].Score, summary.Rankings[1].Score)
}

// TestStatsAggregator_Summarise_Empty tests the empty record set error.
func TestStatsAggregator_Summarise_Empty(t *testing.T) {
	agg := NewStatsAggregator(domain.DefaultConfig())

	_, err := agg.Summarise("run1", []string{"exa"}, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

// TestStatsAggregator_Summarise_NoSolvedRecords tests the TTS stats
// when nothing was solved.
func TestStatsAggregator_Summarise_NoSolvedRecords(t *testing.T) {
	agg := NewStatsAggregator(domain.DefaultConfig())

	records := []domain.MetricRecord{
		record("exa", domain.FrameworkReact, 0.1, 0.0, domain.TierLow, domain.UnsolvedRank),
		record("exa", domain.FrameworkVue, 0.0, 0.1, domain.TierLow, domain.UnsolvedRank),
	}

	summary, err := agg.Summarise("run1", []string{"exa"}, records)
	require.NoError(t, err)

	tts := summary.Systems["exa"].TimeToSolution
	assert.Zero(t, tts.FiniteCount)
	assert.Zero(t, tts.SuccessRate)
	assert.Zero(t, tts.Mean)
	assert.Zero(t, tts.Median)
}

// TestStatsAggregator_Summarise_EvenMedian tests the two-middle-values
// median.
func TestStatsAggregator_Summarise_EvenMedian(t *testing.T) {
	agg := NewStatsAggregator(domain.DefaultConfig())

	records := []domain.MetricRecord{
		record("exa", domain.FrameworkReact, 0.2, 0, domain.TierLow, domain.UnsolvedRank),
		record("exa", domain.FrameworkReact, 0.4, 0, domain.TierLow, domain.UnsolvedRank),
		record("exa", domain.FrameworkReact, 0.6, 0, domain.TierLow, domain.UnsolvedRank),
		record("exa", domain.FrameworkReact, 0.8, 0, domain.TierLow, domain.UnsolvedRank),
	}

	summary, err := agg.Summarise("run1", []string{"exa"}, records)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, summary.Systems["exa"].Deprecation.Median, 1e-9)
}
