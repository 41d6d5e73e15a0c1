package domain

// UnsolvedRank is the Time-to-Solution sentinel for "no rank within the
// window satisfied all three conditions". Treated as +infinity when
// averaging: excluded from mean/median, counted in success-rate
// denominators.
const UnsolvedRank = 0

// RunOutcome annotates how a (query, provider) cell was obtained.
// It is diagnostic only and never changes metric semantics.
type RunOutcome string

// Possible outcomes for a metric record.
const (
	// OutcomeOK means the provider returned at least one result.
	OutcomeOK RunOutcome = "ok"

	// OutcomeEmpty means the provider call succeeded with zero results.
	OutcomeEmpty RunOutcome = "empty"

	// OutcomeFailed means the provider call failed (network, auth,
	// timeout, malformed response) and defaults were recorded.
	OutcomeFailed RunOutcome = "failed"
)

// MetricRecord holds the four metric values for one (query, provider)
// pair. Computed deterministically from the ordered result list.
type MetricRecord struct {
	// QueryID identifies the evaluated query.
	QueryID string

	// Framework is copied from the query for per-framework aggregation.
	Framework Framework

	// Provider is the evaluated system's name.
	Provider string

	// DeprecationAtK is the fraction of top-k results containing
	// deprecation language. Range [0,1].
	DeprecationAtK float64

	// ReplacementCoverage is the fraction of top-k results containing
	// replacement guidance. Range [0,1].
	ReplacementCoverage float64

	// AuthorityAtK is the maximum authority tier among the top-k
	// results, or TierNone for an empty list.
	AuthorityAtK AuthorityTier

	// TimeToSolution is the smallest 1-based rank whose result
	// simultaneously satisfies deprecation language, replacement
	// guidance, and sufficient authority. UnsolvedRank if none.
	TimeToSolution int

	// ResultCount is the number of results actually considered.
	ResultCount int

	// Outcome is the diagnostic annotation for this cell.
	Outcome RunOutcome

	// FailureReason carries the provider error text when Outcome is
	// OutcomeFailed. Diagnostic only.
	FailureReason string
}

// Solved returns true if the record has a finite Time-to-Solution.
func (m MetricRecord) Solved() bool {
	return m.TimeToSolution != UnsolvedRank
}

// FailedRecord builds the default record for a failed provider call:
// all metrics at their "no evidence" values plus the failure diagnostic.
func FailedRecord(q Query, provider string, reason string) MetricRecord {
	return MetricRecord{
		QueryID:        q.ID,
		Framework:      q.Framework,
		Provider:       provider,
		AuthorityAtK:   TierNone,
		TimeToSolution: UnsolvedRank,
		Outcome:        OutcomeFailed,
		FailureReason:  reason,
	}
}
