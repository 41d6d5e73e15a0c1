package snippet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStripHTML tests markup removal and whitespace collapsing.
func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "use createRoot instead",
			want: "use createRoot instead",
		},
		{
			name: "tags become spaces",
			in:   "<p>render is <strong>deprecated</strong></p>",
			want: "render is deprecated",
		},
		{
			name: "script content dropped",
			in:   `<script>alert("x")</script>body text`,
			want: "body text",
		},
		{
			name: "style content dropped",
			in:   "<style>.a{color:red}</style>visible",
			want: "visible",
		},
		{
			name: "comments dropped",
			in:   "before<!-- hidden -->after",
			want: "beforeafter",
		},
		{
			name: "entities decoded",
			in:   "use &quot;createRoot&quot; &amp; hydrateRoot",
			want: `use "createRoot" & hydrateRoot`,
		},
		{
			name: "whitespace collapsed",
			in:   "  multiple\n\n  lines \t here  ",
			want: "multiple lines here",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

// TestTruncate tests byte-limit truncation with ellipsis.
func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "over the l...", Truncate("over the limit here", 10))
}
