package domain

// MetricStats holds the reduction of one metric over a set of records.
type MetricStats struct {
	// Mean is the arithmetic mean.
	Mean float64

	// Median is the middle value (average of the two middle values
	// for even-sized sets).
	Median float64

	// SuccessRate is the fraction of records with a non-zero value.
	SuccessRate float64
}

// TTSStats holds the Time-to-Solution reduction. Unsolved records are
// excluded from Mean/Median and counted only in the success rate.
type TTSStats struct {
	// FiniteCount is the number of records with a finite rank.
	FiniteCount int

	// SuccessRate is FiniteCount divided by the total record count.
	SuccessRate float64

	// Mean is the mean over finite ranks only. Zero when no record
	// is solved.
	Mean float64

	// Median is the median over finite ranks only.
	Median float64
}

// ProviderStats is the full per-provider (or per provider+framework)
// reduction: the three numeric metrics plus Time-to-Solution.
type ProviderStats struct {
	// Provider names the evaluated system.
	Provider string

	// Records is the number of records reduced.
	Records int

	// Deprecation reduces DeprecationAtK.
	Deprecation MetricStats

	// Replacement reduces ReplacementCoverage.
	Replacement MetricStats

	// Authority reduces AuthorityAtK (as float values 0-3).
	Authority MetricStats

	// MaxAuthority is the highest tier observed in any record.
	MaxAuthority AuthorityTier

	// TimeToSolution reduces the TTS ranks.
	TimeToSolution TTSStats
}

// Ranking is one entry in the overall provider ranking.
type Ranking struct {
	// Provider names the ranked system.
	Provider string

	// Score is the fixed-weight linear combination of the four
	// normalised metric means.
	Score float64
}

// Summary is the structured output of aggregation. It is derived,
// read-only data, recomputable at any time from the run's records.
type Summary struct {
	// RunID identifies the run this summary was derived from.
	RunID string

	// Systems holds per-provider statistics keyed by provider name.
	Systems map[string]ProviderStats

	// ByFramework holds per-framework breakdowns: framework tag to
	// provider name to statistics.
	ByFramework map[Framework]map[string]ProviderStats

	// Rankings orders providers by overall score, best first. Ties
	// preserve provider registration order.
	Rankings []Ranking
}
