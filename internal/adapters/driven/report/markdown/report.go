// Package markdown renders evaluation summaries as markdown reports.
package markdown

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
)

// Renderer writes summary reports to a reports directory.
type Renderer struct {
	dir string
	now func() time.Time
}

// NewRenderer creates a renderer writing into dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{
		dir: dir,
		now: time.Now,
	}
}

// Write renders the summary and writes it to <dir>/<runID>_summary.md,
// returning the path of the written file.
func (r *Renderer) Write(summary domain.Summary) (string, error) {
	if err := os.MkdirAll(r.dir, 0750); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(r.dir, summary.RunID+"_summary.md")
	if err := os.WriteFile(path, []byte(r.Render(summary)), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Render produces the markdown document for a summary.
func (r *Renderer) Render(summary domain.Summary) string {
	var b strings.Builder

	b.WriteString("# Deprecation Search Evaluation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Evaluation ID: `%s`\n\n", summary.RunID)

	r.renderOverview(&b, summary)
	r.renderSystems(&b, summary)
	r.renderFrameworks(&b, summary)
	r.renderRankings(&b, summary)
	r.renderMethodology(&b)

	return b.String()
}

func (r *Renderer) renderOverview(b *strings.Builder, summary domain.Summary) {
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(b, "- **Systems Evaluated**: %s\n", strings.Join(systemNames(summary), ", "))
	fmt.Fprintf(b, "- **Frameworks Covered**: %s\n\n", strings.Join(frameworkNames(summary), ", "))
}

func (r *Renderer) renderSystems(b *strings.Builder, summary domain.Summary) {
	b.WriteString("## Overall System Performance\n\n")
	b.WriteString("### Summary Statistics\n\n")
	b.WriteString("| System | Queries | Deprecation@k (mean) | Replacement Coverage (mean) | Authority@k (mean) | Time-to-Solution (success rate) |\n")
	b.WriteString("|--------|---------|----------------------|-----------------------------|--------------------|---------------------------------|\n")

	for _, name := range systemNames(summary) {
		stats := summary.Systems[name]
		fmt.Fprintf(b, "| %s | %d | %.3f | %.3f | %.3f | %s |\n",
			name,
			stats.Records,
			stats.Deprecation.Mean,
			stats.Replacement.Mean,
			stats.Authority.Mean,
			percent(stats.TimeToSolution.SuccessRate),
		)
	}

	b.WriteString("\n### Detailed Metrics\n")
	for _, name := range systemNames(summary) {
		stats := summary.Systems[name]
		fmt.Fprintf(b, "\n**%s**\n", title(name))
		fmt.Fprintf(b, "- Deprecation Detection: %s success rate (mean: %.3f, median: %.3f)\n",
			percent(stats.Deprecation.SuccessRate), stats.Deprecation.Mean, stats.Deprecation.Median)
		fmt.Fprintf(b, "- Replacement Coverage: %s success rate (mean: %.3f, median: %.3f)\n",
			percent(stats.Replacement.SuccessRate), stats.Replacement.Mean, stats.Replacement.Median)
		fmt.Fprintf(b, "- Authority Level: Mean %.2f, Max %d (median: %.2f)\n",
			stats.Authority.Mean, stats.MaxAuthority, stats.Authority.Median)
		fmt.Fprintf(b, "- Time-to-Solution: %s solved (%d/%d queries, mean: %s, median: %s)\n",
			percent(stats.TimeToSolution.SuccessRate),
			stats.TimeToSolution.FiniteCount,
			stats.Records,
			ttsValue(stats.TimeToSolution, stats.TimeToSolution.Mean),
			ttsValue(stats.TimeToSolution, stats.TimeToSolution.Median),
		)
	}
	b.WriteString("\n")
}

func (r *Renderer) renderFrameworks(b *strings.Builder, summary domain.Summary) {
	b.WriteString("## Per-Framework Analysis\n\n")

	names := frameworkNames(summary)
	if len(names) == 0 {
		b.WriteString("*No framework-specific data available*\n\n")
		return
	}

	for _, fw := range names {
		systems := summary.ByFramework[domain.Framework(fw)]

		total := 0
		for _, stats := range systems {
			total += stats.Records
		}
		fmt.Fprintf(b, "### %s Framework (%d queries)\n\n", title(fw), total)

		b.WriteString("| System | Queries | Deprecation@k | Replacement Coverage | Authority@k | TTS Success |\n")
		b.WriteString("|--------|---------|---------------|----------------------|-------------|-------------|\n")
		for _, name := range sortedKeys(systems) {
			stats := systems[name]
			fmt.Fprintf(b, "| %s | %d | %.3f | %.3f | %.3f | %s |\n",
				name,
				stats.Records,
				stats.Deprecation.Mean,
				stats.Replacement.Mean,
				stats.Authority.Mean,
				percent(stats.TimeToSolution.SuccessRate),
			)
		}
		b.WriteString("\n")
	}
}

func (r *Renderer) renderRankings(b *strings.Builder, summary domain.Summary) {
	if len(summary.Rankings) < 2 {
		return
	}

	b.WriteString("## System Rankings\n\n")
	b.WriteString("**Overall Effectiveness Ranking** (weighted average of all metrics):\n\n")
	for i, ranking := range summary.Rankings {
		fmt.Fprintf(b, "%d. **%s** (score: %.3f)\n", i+1, title(ranking.Provider), ranking.Score)

		stats := summary.Systems[ranking.Provider]
		fmt.Fprintf(b, "   - Best at: %s\n\n", strengths(stats))
	}
}

func (r *Renderer) renderMethodology(b *strings.Builder) {
	b.WriteString(`## Methodology

This evaluation uses four key metrics:
1. **Deprecation@k**: Detection of deprecation language in top-k results
2. **Replacement Coverage**: Presence of replacement/migration guidance
3. **Authority@k**: Maximum authority tier of sources (1=forums, 2=blogs, 3=official docs)
4. **Time-to-Solution**: Rank of first result meeting all criteria with sufficient authority
`)
}

// strengths names the metrics a system performs notably well on.
func strengths(stats domain.ProviderStats) string {
	var best []string
	if stats.Deprecation.Mean >= 0.5 {
		best = append(best, "deprecation detection")
	}
	if stats.Replacement.Mean >= 0.5 {
		best = append(best, "replacement coverage")
	}
	if stats.Authority.Mean >= 2.5 {
		best = append(best, "high authority sources")
	}
	if stats.TimeToSolution.SuccessRate >= 0.3 {
		best = append(best, "complete solutions")
	}
	if len(best) == 0 {
		return "consistent baseline performance"
	}
	return strings.Join(best, ", ")
}

func systemNames(summary domain.Summary) []string {
	return sortedKeys(summary.Systems)
}

func frameworkNames(summary domain.Summary) []string {
	names := make([]string, 0, len(summary.ByFramework))
	for fw := range summary.ByFramework {
		names = append(names, string(fw))
	}
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]domain.ProviderStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// ttsValue formats a rank statistic, showing the unsolved marker when
// no record in the group was solved.
func ttsValue(tts domain.TTSStats, v float64) string {
	if tts.FiniteCount == 0 {
		return "unsolved"
	}
	return fmt.Sprintf("%.2f", v)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
