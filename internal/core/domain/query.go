package domain

// Framework identifies the software ecosystem a query targets.
type Framework string

// Recognised framework tags. Queries carrying any other tag are
// rejected at load time, before evaluation work begins.
const (
	FrameworkReact   Framework = "react"
	FrameworkNextJS  Framework = "nextjs"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkSvelte  Framework = "svelte"
	FrameworkNode    Framework = "node"
	FrameworkPython  Framework = "python"
	FrameworkGo      Framework = "go"
)

// IsValid returns true if the framework tag is recognised.
func (f Framework) IsValid() bool {
	switch f {
	case FrameworkReact, FrameworkNextJS, FrameworkVue, FrameworkAngular,
		FrameworkSvelte, FrameworkNode, FrameworkPython, FrameworkGo:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Framework) String() string {
	return string(f)
}

// Query is a single benchmark query. Queries are created once by the
// dataset loader and never mutated afterwards.
type Query struct {
	// ID is the unique identifier for the query.
	ID string

	// Framework tags the ecosystem the query is about.
	Framework Framework

	// Text is the natural-language query sent to providers.
	Text string

	// ExpectedDeprecated is the ground-truth deprecated API, when labelled.
	ExpectedDeprecated string

	// ExpectedReplacements are ground-truth replacement tokens, when labelled.
	// They supplement the heuristic replacement patterns during matching.
	ExpectedReplacements []string
}

// HasLabels returns true if the query carries ground-truth labels.
func (q Query) HasLabels() bool {
	return q.ExpectedDeprecated != "" || len(q.ExpectedReplacements) > 0
}
