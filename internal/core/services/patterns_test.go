package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// TestPatternMatcher_HasDeprecationLanguage tests the deprecation
// phrase heuristics, including the word-boundary guards.
func TestPatternMatcher_HasDeprecationLanguage(t *testing.T) {
	matcher := NewPatternMatcher(domain.DefaultConfig())

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain deprecated", "componentWillMount is deprecated since React 16.3", true},
		{"deprecated at start", "deprecated: use getInitialProps instead", true},
		{"deprecated in parens", "getInitialProps (deprecated) fetches data", true},
		{"deprecated with bracket", "[deprecated] this API will be removed", true},
		{"has been removed", "the body-parser middleware has been removed.", true},
		{"will be replaced", "this hook will be replaced, see the docs", true},
		{"migration guide", "see the official migration guide for details", true},
		{"no longer supported", "this version is no longer supported", true},
		{"use instead phrase", "use createRoot instead of ReactDOM.render", true},
		{"case insensitive", "This API Is DEPRECATED.", true},
		{"embedded word does not fire", "the undeprecated API remains available", false},
		{"deprecation noun alone", "our deprecation policy covers two releases", false},
		{"unrelated text", "how to center a div with flexbox", false},
		{"empty text", "", false},
		{"whitespace only", "   \t  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.HasDeprecationLanguage(tt.text))
		})
	}
}

// TestPatternMatcher_HasReplacementGuidance tests the heuristic set
// and the label-token augmentation.
func TestPatternMatcher_HasReplacementGuidance(t *testing.T) {
	matcher := NewPatternMatcher(domain.DefaultConfig())

	tests := []struct {
		name   string
		text   string
		labels []string
		want   bool
	}{
		{"literal instead of", "use fetch instead of axios for this", nil, true},
		{"literal migrate to", "you should migrate to the app router", nil, true},
		{"literal switch to", "switch to createRoot in React 18", nil, true},
		{"literal recommended", "the recommended approach is hooks", nil, true},
		{"wildcard use instead", "use getServerSideProps in your pages instead", nil, true},
		{"case insensitive literal", "SWITCH TO the new API", nil, true},
		{"label token match", "createRoot handles concurrent rendering", []string{"createRoot"}, true},
		{"label match is case insensitive", "CREATEROOT handles rendering", []string{"createRoot"}, true},
		{"empty label ignored", "nothing relevant here", []string{""}, false},
		{"no guidance", "this API exists and works", nil, false},
		{"empty text", "", []string{"createRoot"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.HasReplacementGuidance(tt.text, tt.labels))
		})
	}
}

// TestPatternMatcher_CustomPatterns tests that configured pattern sets
// replace the defaults entirely.
func TestPatternMatcher_CustomPatterns(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.DeprecationPatterns = []string{`\bobsolete\b`}
	cfg.ReplacementPatterns = []string{"upgrade path"}
	matcher := NewPatternMatcher(cfg)

	assert.True(t, matcher.HasDeprecationLanguage("this call is obsolete"))
	assert.False(t, matcher.HasDeprecationLanguage("this call is deprecated"))
	assert.True(t, matcher.HasReplacementGuidance("an upgrade path exists", nil))
	assert.False(t, matcher.HasReplacementGuidance("use X instead", nil))
}
