package services

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// AuthorityClassifier maps a result URL to an authority tier.
// Classification is a pure function of the URL: same input, same tier,
// no network access, no hidden state. Malformed and unknown URLs
// classify as the lowest tier; classification never fails.
type AuthorityClassifier struct {
	official  []*regexp.Regexp
	community []*regexp.Regexp
}

// NewAuthorityClassifier compiles the tier patterns from the
// configuration. Patterns that fail to compile are skipped; matching is
// heuristic and a bad entry must not take the classifier down.
func NewAuthorityClassifier(cfg domain.EvalConfig) *AuthorityClassifier {
	return &AuthorityClassifier{
		official:  compilePatterns(cfg.OfficialDomains),
		community: compilePatterns(cfg.CommunityDomains),
	}
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// Classify returns the authority tier for a URL.
//
// Tier 3 covers official documentation domains and organisation-owned
// repository paths on recognised code hosts. Tier 2 covers community
// platforms, engineering blogs and general repositories. Everything
// else, including unparseable input, is tier 1.
func (c *AuthorityClassifier) Classify(rawURL string) domain.AuthorityTier {
	host, path, ok := splitURL(rawURL)
	if !ok {
		return domain.TierLow
	}

	// Patterns may target the host alone or the host+path form.
	hostPath := host + path

	for _, re := range c.official {
		if re.MatchString(host) || re.MatchString(hostPath) {
			return domain.TierOfficial
		}
	}
	for _, re := range c.community {
		if re.MatchString(host) || re.MatchString(hostPath) {
			return domain.TierMedium
		}
	}
	return domain.TierLow
}

// DomainInfo describes how a URL was decomposed for classification.
// Used by the classify debug command.
type DomainInfo struct {
	// URL is the original input.
	URL string

	// Host is the normalised host (lower-cased, www. stripped).
	Host string

	// Path is the URL path.
	Path string

	// Tier is the resulting classification.
	Tier domain.AuthorityTier
}

// Inspect returns the decomposition and tier for a URL, or false if
// the input has no recognisable host.
func (c *AuthorityClassifier) Inspect(rawURL string) (DomainInfo, bool) {
	host, path, ok := splitURL(rawURL)
	if !ok {
		return DomainInfo{}, false
	}
	return DomainInfo{
		URL:  rawURL,
		Host: host,
		Path: path,
		Tier: c.Classify(rawURL),
	}, true
}

// splitURL extracts the normalised host and path from a raw URL.
// Returns false when no host can be recovered.
func splitURL(rawURL string) (host, path string, ok bool) {
	trimmed := strings.ToLower(strings.TrimSpace(rawURL))
	if trimmed == "" {
		return "", "", false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", "", false
	}
	if parsed.Host == "" {
		// Scheme-less input like "nextjs.org/docs".
		parsed, err = url.Parse("https://" + trimmed)
		if err != nil || parsed.Host == "" {
			return "", "", false
		}
	}

	host = strings.TrimPrefix(parsed.Hostname(), "www.")
	return host, parsed.Path, true
}
