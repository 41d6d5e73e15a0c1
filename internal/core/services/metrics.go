package services

import "github.com/custodia-labs/depreval-cli/internal/core/domain"

// MetricsEngine computes the four quality metrics for one ordered
// result list. All computations are pure and deterministic: identical
// input yields an identical record, and fewer than k results are
// evaluated over however many are available.
type MetricsEngine struct {
	classifier *AuthorityClassifier
	matcher    *PatternMatcher
	topK       int
	minTier    domain.AuthorityTier
}

// NewMetricsEngine creates an engine bound to one configuration.
func NewMetricsEngine(cfg domain.EvalConfig) *MetricsEngine {
	return &MetricsEngine{
		classifier: NewAuthorityClassifier(cfg),
		matcher:    NewPatternMatcher(cfg),
		topK:       cfg.TopK,
		minTier:    cfg.MinAuthority,
	}
}

// Evaluate computes the metric record for a (query, provider) pair.
//
//   - Deprecation@k: fraction of top-k results with deprecation
//     language. Empty list yields 0.0, not an error.
//   - ReplacementCoverage: fraction of top-k results with replacement
//     guidance (label tokens included when the query is labelled).
//   - Authority@k: maximum tier among the top-k, TierNone when empty.
//   - TimeToSolution: smallest rank whose result passes all three
//     conditions simultaneously, UnsolvedRank when none does.
func (e *MetricsEngine) Evaluate(q domain.Query, provider string, results []domain.Result) domain.MetricRecord {
	window := results
	if len(window) > e.topK {
		window = window[:e.topK]
	}

	rec := domain.MetricRecord{
		QueryID:        q.ID,
		Framework:      q.Framework,
		Provider:       provider,
		AuthorityAtK:   domain.TierNone,
		TimeToSolution: domain.UnsolvedRank,
		ResultCount:    len(window),
		Outcome:        domain.OutcomeOK,
	}
	if len(window) == 0 {
		rec.Outcome = domain.OutcomeEmpty
		return rec
	}

	deprecated := 0
	replaced := 0
	for i, res := range window {
		text := res.CombinedText()
		tier := e.classifier.Classify(res.URL)

		hasDep := e.matcher.HasDeprecationLanguage(text)
		hasRep := e.matcher.HasReplacementGuidance(text, q.ExpectedReplacements)

		if hasDep {
			deprecated++
		}
		if hasRep {
			replaced++
		}
		if tier > rec.AuthorityAtK {
			rec.AuthorityAtK = tier
		}

		// First rank satisfying all three conditions on the same result.
		if rec.TimeToSolution == domain.UnsolvedRank && hasDep && hasRep && tier >= e.minTier {
			rec.TimeToSolution = i + 1
		}
	}

	rec.DeprecationAtK = float64(deprecated) / float64(len(window))
	rec.ReplacementCoverage = float64(replaced) / float64(len(window))
	return rec
}

// Classifier exposes the engine's authority classifier for debug tooling.
func (e *MetricsEngine) Classifier() *AuthorityClassifier {
	return e.classifier
}
