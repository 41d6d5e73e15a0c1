package domain

import "strings"

// Result represents one search/answer hit returned by a provider.
// Results are immutable once returned.
type Result struct {
	// URL is the source location of the hit.
	URL string

	// Title is the result title.
	Title string

	// Snippet is the text snippet or body excerpt.
	Snippet string

	// Rank is the 1-based position within the provider's response.
	// Unique within a single (query, provider) response.
	Rank int

	// Provider is the name of the system that produced this result.
	Provider string
}

// CombinedText returns the lower-cased title and snippet joined for
// pattern matching. Both metrics operate on this combined text.
func (r Result) CombinedText() string {
	return strings.ToLower(strings.TrimSpace(r.Title + " " + r.Snippet))
}

// AuthorityTier classifies the trustworthiness of a result's source.
// Derived purely from the URL; never stored independently.
type AuthorityTier int

// Authority tiers. TierNone is the "no authority observed" sentinel
// for empty result lists and is distinct from TierLow.
const (
	TierNone     AuthorityTier = 0
	TierLow      AuthorityTier = 1
	TierMedium   AuthorityTier = 2
	TierOfficial AuthorityTier = 3
)

// String returns a human-readable tier name.
func (t AuthorityTier) String() string {
	switch t {
	case TierOfficial:
		return "official"
	case TierMedium:
		return "community"
	case TierLow:
		return "unverified"
	default:
		return "none"
	}
}
