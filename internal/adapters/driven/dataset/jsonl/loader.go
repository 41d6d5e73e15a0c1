// Package jsonl loads the benchmark dataset from JSON Lines files.
// Queries live in queries.jsonl; ground-truth labels are optional and
// merged in from labels.jsonl by query id.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
	"github.com/custodia-labs/depreval-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.QueryLoader = (*Loader)(nil)

// Loader reads queries and labels from JSONL files.
type Loader struct {
	queriesPath string
	labelsPath  string
}

// NewLoader creates a loader. labelsPath may be empty; evaluation then
// relies on the heuristic replacement patterns alone.
func NewLoader(queriesPath, labelsPath string) *Loader {
	return &Loader{
		queriesPath: queriesPath,
		labelsPath:  labelsPath,
	}
}

// queryLine is one line of queries.jsonl.
type queryLine struct {
	ID        string `json:"id"`
	Framework string `json:"framework"`
	Query     string `json:"query"`
}

// labelLine is one line of labels.jsonl.
type labelLine struct {
	ID                   string   `json:"id"`
	ExpectedDeprecated   string   `json:"expected_deprecated"`
	ExpectedReplacements []string `json:"expected_replacements"`
}

// LoadQueries returns the ordered query list with labels merged in.
// Unknown framework tags fail the load so the problem surfaces before
// any evaluation work begins.
func (l *Loader) LoadQueries(ctx context.Context) ([]domain.Query, error) {
	labels, err := l.loadLabels()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(l.queriesPath)
	if err != nil {
		return nil, fmt.Errorf("open queries: %w", err)
	}
	defer f.Close()

	var queries []domain.Query
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ql queryLine
		if err := json.Unmarshal([]byte(line), &ql); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", l.queriesPath, lineNo, err)
		}
		if strings.TrimSpace(ql.Query) == "" {
			return nil, fmt.Errorf("%s line %d: empty query text: %w", l.queriesPath, lineNo, domain.ErrInvalidInput)
		}
		if ql.ID == "" {
			ql.ID = uuid.NewString()
			logger.Debug("Query on line %d has no id, generated %s", lineNo, ql.ID)
		}

		fw := domain.Framework(ql.Framework)
		if !fw.IsValid() {
			return nil, fmt.Errorf("%s line %d: %q: %w", l.queriesPath, lineNo, ql.Framework, domain.ErrUnknownFramework)
		}

		q := domain.Query{
			ID:        ql.ID,
			Framework: fw,
			Text:      ql.Query,
		}
		if label, ok := labels[ql.ID]; ok {
			q.ExpectedDeprecated = label.ExpectedDeprecated
			q.ExpectedReplacements = label.ExpectedReplacements
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	logger.Info("Loaded %d queries from %s (%d labelled)", len(queries), l.queriesPath, len(labels))
	return queries, nil
}

// loadLabels reads the optional label file. A missing file is fine.
func (l *Loader) loadLabels() (map[string]labelLine, error) {
	if l.labelsPath == "" {
		return nil, nil
	}

	f, err := os.Open(l.labelsPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No label file at %s, using heuristic replacements", l.labelsPath)
			return nil, nil
		}
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	labels := make(map[string]labelLine)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ll labelLine
		if err := json.Unmarshal([]byte(line), &ll); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", l.labelsPath, lineNo, err)
		}
		if ll.ID == "" {
			continue
		}
		labels[ll.ID] = ll
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return labels, nil
}
