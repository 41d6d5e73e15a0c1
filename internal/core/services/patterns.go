package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// PatternMatcher holds the two text classifiers: deprecation language
// and replacement guidance. Both operate case-insensitively on a
// result's combined title+snippet text, treat absent text as a
// non-match, and never error. The pattern sets come from configuration
// because recall is the evaluation's known weak point.
type PatternMatcher struct {
	deprecation []*regexp.Regexp

	// Replacement entries containing ".*" compile to regexps, the
	// rest match as literal substrings.
	replacementRes  []*regexp.Regexp
	replacementLits []string
}

// NewPatternMatcher builds a matcher from the configured pattern sets.
// Invalid regex entries are skipped rather than failing the run.
func NewPatternMatcher(cfg domain.EvalConfig) *PatternMatcher {
	m := &PatternMatcher{
		deprecation: compileInsensitive(cfg.DeprecationPatterns),
	}
	m.replacementRes, m.replacementLits = splitReplacementPatterns(cfg.ReplacementPatterns)
	return m
}

func compileInsensitive(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

func splitReplacementPatterns(patterns []string) ([]*regexp.Regexp, []string) {
	var res []*regexp.Regexp
	var lits []string
	for _, p := range patterns {
		if strings.Contains(p, ".*") {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				continue
			}
			res = append(res, re)
			continue
		}
		lits = append(lits, strings.ToLower(p))
	}
	return res, lits
}

// HasDeprecationLanguage reports whether the text contains any
// deprecation-indicating phrase.
func (m *PatternMatcher) HasDeprecationLanguage(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	for _, re := range m.deprecation {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// HasReplacementGuidance reports whether the text contains any
// replacement-indicating phrase. Ground-truth replacement tokens from
// the query's labels, when present, are matched in addition to the
// heuristic set.
func (m *PatternMatcher) HasReplacementGuidance(text string, labels []string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	lower := strings.ToLower(text)

	for _, lit := range m.replacementLits {
		if strings.Contains(lower, lit) {
			return true
		}
	}
	for _, re := range m.replacementRes {
		if re.MatchString(text) {
			return true
		}
	}
	for _, label := range labels {
		if label == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(label)) {
			return true
		}
	}
	return false
}
