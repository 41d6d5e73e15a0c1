package markdown

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

func testSummary() domain.Summary {
	exa := domain.ProviderStats{
		Provider: "exa",
		Records:  4,
		Deprecation: domain.MetricStats{
			Mean: 0.75, Median: 0.8, SuccessRate: 1.0,
		},
		Replacement: domain.MetricStats{
			Mean: 0.5, Median: 0.5, SuccessRate: 0.75,
		},
		Authority: domain.MetricStats{
			Mean: 2.5, Median: 3, SuccessRate: 1.0,
		},
		MaxAuthority: domain.TierOfficial,
		TimeToSolution: domain.TTSStats{
			FiniteCount: 2, SuccessRate: 0.5, Mean: 1.5, Median: 1.5,
		},
	}
	github := domain.ProviderStats{
		Provider:     "github",
		Records:      4,
		Deprecation:  domain.MetricStats{Mean: 0.25, Median: 0.2, SuccessRate: 0.5},
		Replacement:  domain.MetricStats{Mean: 0.1, Median: 0, SuccessRate: 0.25},
		Authority:    domain.MetricStats{Mean: 2.0, Median: 2, SuccessRate: 1.0},
		MaxAuthority: domain.TierMedium,
		TimeToSolution: domain.TTSStats{
			FiniteCount: 0, SuccessRate: 0,
		},
	}

	return domain.Summary{
		RunID: "20250314_092653",
		Systems: map[string]domain.ProviderStats{
			"exa":    exa,
			"github": github,
		},
		ByFramework: map[domain.Framework]map[string]domain.ProviderStats{
			domain.FrameworkReact: {"exa": exa, "github": github},
		},
		Rankings: []domain.Ranking{
			{Provider: "exa", Score: 0.645},
			{Provider: "github", Score: 0.254},
		},
	}
}

// TestRenderer_Render tests the report structure and key figures.
func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(t.TempDir())
	r.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	}

	out := r.Render(testSummary())

	assert.Contains(t, out, "# Deprecation Search Evaluation Report")
	assert.Contains(t, out, "Generated: 2025-03-14 09:30:00")
	assert.Contains(t, out, "Evaluation ID: `20250314_092653`")
	assert.Contains(t, out, "**Systems Evaluated**: exa, github")
	assert.Contains(t, out, "**Frameworks Covered**: react")

	// Summary table rows.
	assert.Contains(t, out, "| exa | 4 | 0.750 | 0.500 | 2.500 | 50.0% |")
	assert.Contains(t, out, "| github | 4 | 0.250 | 0.100 | 2.000 | 0.0% |")

	// Detailed metrics show the unsolved marker for github.
	assert.Contains(t, out, "mean: 1.50, median: 1.50")
	assert.Contains(t, out, "0/4 queries, mean: unsolved, median: unsolved")

	// Per-framework section and rankings.
	assert.Contains(t, out, "### React Framework (8 queries)")
	assert.Contains(t, out, "## System Rankings")
	assert.Contains(t, out, "1. **Exa** (score: 0.645)")
	assert.Contains(t, out, "2. **Github** (score: 0.254)")
	assert.Contains(t, out, "## Methodology")
}

// TestRenderer_Render_SingleSystem tests that rankings are omitted for
// a single evaluated system.
func TestRenderer_Render_SingleSystem(t *testing.T) {
	r := NewRenderer(t.TempDir())

	summary := testSummary()
	delete(summary.Systems, "github")
	summary.Rankings = summary.Rankings[:1]

	out := r.Render(summary)
	assert.NotContains(t, out, "## System Rankings")
}

// TestRenderer_Write tests the report file naming and contents.
func TestRenderer_Write(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)

	path, err := r.Write(testSummary())
	require.NoError(t, err)
	assert.Contains(t, path, "20250314_092653_summary.md")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Deprecation Search Evaluation Report")
}
