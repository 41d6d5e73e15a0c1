// Package snippet cleans provider result text before pattern matching.
// Search APIs return snippets as HTML fragments or markdown; stripping
// the markup keeps the deprecation heuristics from matching tag
// attributes instead of prose.
package snippet

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for HTML stripping performance.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// StripHTML removes markup from a text fragment and collapses the
// result to a single line of readable text.
func StripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = allTags.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)
	return strings.TrimSpace(whitespace.ReplaceAllString(content, " "))
}

// Truncate shortens text to at most limit bytes, appending an ellipsis
// when anything was cut.
func Truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
