package domain

// RankingWeights are the fixed weights for the overall ranking score.
// The score is a linear combination of the four normalised metric
// means; weights are configuration, not derived data.
type RankingWeights struct {
	// Deprecation weights the mean Deprecation@k.
	Deprecation float64

	// Replacement weights the mean ReplacementCoverage.
	Replacement float64

	// Authority weights the mean Authority@k divided by TierOfficial.
	Authority float64

	// Solved weights the Time-to-Solution success rate.
	Solved float64
}

// Sum returns the total weight. A valid configuration sums to 1.
func (w RankingWeights) Sum() float64 {
	return w.Deprecation + w.Replacement + w.Authority + w.Solved
}

// EvalConfig is the immutable configuration for one evaluation run.
// It is constructed once and passed into each component; there is no
// process-wide mutable state, so runs with different configurations
// can execute concurrently without interference.
type EvalConfig struct {
	// TopK is the window of highest-ranked results per pair.
	TopK int

	// MinAuthority is the tier a result must reach to count towards
	// Time-to-Solution.
	MinAuthority AuthorityTier

	// Concurrency bounds the number of in-flight (query, provider)
	// pairs. Exists to respect external API rate limits.
	Concurrency int

	// DeprecationPatterns are regular expressions indicating
	// deprecation language. Matched case-insensitively.
	DeprecationPatterns []string

	// ReplacementPatterns indicate replacement guidance. Entries
	// containing ".*" are treated as regular expressions, anything
	// else as a literal substring.
	ReplacementPatterns []string

	// OfficialDomains are regular expressions for tier 3 hosts and
	// host+path combinations.
	OfficialDomains []string

	// CommunityDomains are regular expressions for tier 2 hosts and
	// host+path combinations.
	CommunityDomains []string

	// Weights configure the overall ranking score.
	Weights RankingWeights
}

// DefaultConfig returns the default evaluation configuration.
//
// The default ranking weights are an even 0.25 split across the four
// metrics, with Authority normalised to [0,1] by dividing by the top
// tier. The pattern sets are heuristics, deliberately word-boundary
// guarded so that e.g. "undeprecated" does not fire.
func DefaultConfig() EvalConfig {
	return EvalConfig{
		TopK:         10,
		MinAuthority: TierMedium,
		Concurrency:  4,
		DeprecationPatterns: []string{
			`(?:\(|:|\[|^|\s)(?:is |was |has been |will be |now |been )?deprecated(?:\)|:|\]|\.|!|,|;|\s|$)`,
			`\b(?:was |has been |will be |been )?removed(?:\.|!|,|;|\s|$)`,
			`\b(?:was |has been |will be |been )?replaced(?:\.|!|,|;|\s|$)`,
			`\bmigration guide\b`,
			`\bmigration doc\b`,
			`\bno longer supported\b`,
			`\buse .* instead\b`,
		},
		ReplacementPatterns: []string{
			"use .* instead",
			"use instead",
			"instead of",
			"alternative to",
			"replacement for",
			"migrate to",
			"switch to",
			"recommended",
			"preferred",
		},
		OfficialDomains: []string{
			`^nextjs\.org`,
			`^reactjs\.org`,
			`^react\.dev`,
			`^vuejs\.org`,
			`^angular\.io`,
			`^svelte\.dev`,
			`^nodejs\.org`,
			`^python\.org`,
			`^pytorch\.org`,
			`^tensorflow\.org`,
			`^golang\.org`,
			`^go\.dev`,
			`\.readthedocs\.io`,
			`^docs\.`,
			`^documentation\.`,
			`^developer\.mozilla\.org`,
			`^developer\.apple\.com`,
			`^docs\.aws\.amazon\.com`,
			`^cloud\.google\.com`,
			`^docs\.microsoft\.com`,
			`^npmjs\.com`,
			`^pypi\.org`,
			`^crates\.io`,
			`^pkg\.go\.dev`,
			`^github\.com/.+/(docs|issues|pull|discussions|releases|wiki)`,
			`^gitlab\.com/.+/(docs|issues|merge_requests|wiki)`,
		},
		CommunityDomains: []string{
			`^dev\.to`,
			`^medium\.com`,
			`^hashnode\.com`,
			`\.substack\.com`,
			`^engineering\.`,
			`^developers\.`,
			`^blog\.(netflix|google|microsoft|meta|amazon|stripe|shopify|github|gitlab|vercel|netlify)\.com`,
			`^freecodecamp\.org`,
			`^css-tricks\.com`,
			`^smashingmagazine\.com`,
			`^web\.dev`,
			`^github\.com/[^/]+/[^/]+$`,
			`^github\.com/[^/]+/[^/]+/(blob|tree)`,
		},
		Weights: RankingWeights{
			Deprecation: 0.25,
			Replacement: 0.25,
			Authority:   0.25,
			Solved:      0.25,
		},
	}
}
