package domain

import (
	"sync"
	"time"
)

// RunIDLayout is the timestamp layout used to derive run identifiers.
const RunIDLayout = "20060102_150405"

// RecordKey uniquely identifies a (query, provider) cell within a run.
type RecordKey struct {
	QueryID  string
	Provider string
}

// EvaluationRun is the full collection of metric records for one
// execution. Records are keyed by (query id, provider name); inserting
// the same key twice overwrites rather than duplicates. Insertion is
// safe under concurrent use; reads taken after the run completes see a
// consistent snapshot.
type EvaluationRun struct {
	// ID is the timestamp-derived run identifier.
	ID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Queries is the number of queries covered by this run.
	Queries int

	// Providers lists evaluated providers in registration order.
	// Registration order breaks ranking ties.
	Providers []string

	mu      sync.Mutex
	records map[RecordKey]MetricRecord
}

// NewEvaluationRun creates a run with a timestamp-derived id.
func NewEvaluationRun(started time.Time, queries int, providers []string) *EvaluationRun {
	return &EvaluationRun{
		ID:        started.Format(RunIDLayout),
		StartedAt: started,
		Queries:   queries,
		Providers: append([]string(nil), providers...),
		records:   make(map[RecordKey]MetricRecord),
	}
}

// Add inserts or overwrites the record for its (query, provider) key.
func (r *EvaluationRun) Add(rec MetricRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[RecordKey{QueryID: rec.QueryID, Provider: rec.Provider}] = rec
}

// Get returns the record for a (query, provider) pair.
func (r *EvaluationRun) Get(queryID, provider string) (MetricRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[RecordKey{QueryID: queryID, Provider: provider}]
	return rec, ok
}

// Len returns the number of records collected so far.
func (r *EvaluationRun) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Records returns a copy of all records. Order is not significant.
func (r *EvaluationRun) Records() []MetricRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MetricRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out
}

// Complete returns true if the run holds one record per
// (query, provider) pair it was created for.
func (r *EvaluationRun) Complete() bool {
	return r.Len() == r.Queries*len(r.Providers)
}
