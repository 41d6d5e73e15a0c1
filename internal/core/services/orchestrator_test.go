package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// fakeLoader returns a fixed query set.
type fakeLoader struct {
	queries []domain.Query
	err     error
}

var _ driven.QueryLoader = (*fakeLoader)(nil)

func (l *fakeLoader) LoadQueries(context.Context) ([]domain.Query, error) {
	return l.queries, l.err
}

// fakeRunStore captures the persisted run.
type fakeRunStore struct {
	mu    sync.Mutex
	saved *driven.StoredRun
	err   error
}

var _ driven.RunStore = (*fakeRunStore)(nil)

func (s *fakeRunStore) SaveRun(_ context.Context, run driven.StoredRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = &run
	return nil
}

func (s *fakeRunStore) GetRun(context.Context, string) (driven.StoredRun, error) {
	return driven.StoredRun{}, domain.ErrNotFound
}

func (s *fakeRunStore) ListRuns(context.Context) ([]string, error) { return nil, nil }
func (s *fakeRunStore) Close() error                               { return nil }

// failingValidator is a provider whose startup validation fails.
type failingValidator struct {
	fakeProvider
}

func (f *failingValidator) Validate(context.Context) error {
	return domain.ErrMissingCredentials
}

func testQueries() []domain.Query {
	return []domain.Query{
		{ID: "q1", Framework: domain.FrameworkReact, Text: "ReactDOM.render deprecated"},
		{ID: "q2", Framework: domain.FrameworkNextJS, Text: "getInitialProps replacement"},
		{ID: "q3", Framework: domain.FrameworkVue, Text: "Vue.set removed"},
	}
}

func newTestOrchestrator(providers []driven.ProviderAdapter, loader driven.QueryLoader, store driven.RunStore) *Orchestrator {
	cfg := domain.DefaultConfig()
	engine := NewMetricsEngine(cfg)
	runner := NewProviderRunner(engine, nil, cfg.TopK)
	agg := NewStatsAggregator(cfg)
	return NewOrchestrator(cfg, runner, providers, loader, store, agg)
}

// TestOrchestrator_Evaluate tests the full matrix: one record per
// (query, provider) pair, persisted and summarised.
func TestOrchestrator_Evaluate(t *testing.T) {
	providers := []driven.ProviderAdapter{
		&fakeProvider{name: "exa", results: goodResults()},
		&fakeProvider{name: "stackoverflow", results: nil},
		&fakeProvider{name: "github", err: errors.New("quota exhausted")},
	}
	store := &fakeRunStore{}
	orch := newTestOrchestrator(providers, &fakeLoader{queries: testQueries()}, store)

	run, summary, err := orch.Evaluate(context.Background())
	require.NoError(t, err)

	// Every cell of the matrix is present exactly once.
	assert.Equal(t, 9, run.Len())
	assert.True(t, run.Complete())

	rec, ok := run.Get("q2", "github")
	require.True(t, ok)
	assert.Equal(t, domain.OutcomeFailed, rec.Outcome)
	assert.Equal(t, "quota exhausted", rec.FailureReason)

	rec, ok = run.Get("q1", "stackoverflow")
	require.True(t, ok)
	assert.Equal(t, domain.OutcomeEmpty, rec.Outcome)

	// Persistence captured the same records.
	require.NotNil(t, store.saved)
	assert.Equal(t, run.ID, store.saved.ID)
	assert.Len(t, store.saved.Records, 9)

	// The summary covers all three systems and ranks exa first.
	assert.Len(t, summary.Systems, 3)
	require.NotEmpty(t, summary.Rankings)
	assert.Equal(t, "exa", summary.Rankings[0].Provider)
}

// TestOrchestrator_Evaluate_NoProviders tests the startup validation.
func TestOrchestrator_Evaluate_NoProviders(t *testing.T) {
	orch := newTestOrchestrator(nil, &fakeLoader{queries: testQueries()}, nil)

	_, _, err := orch.Evaluate(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestOrchestrator_Evaluate_EmptyQuerySet tests that an empty dataset
// is fatal before any provider is called.
func TestOrchestrator_Evaluate_EmptyQuerySet(t *testing.T) {
	provider := &fakeProvider{name: "exa", results: goodResults()}
	orch := newTestOrchestrator([]driven.ProviderAdapter{provider}, &fakeLoader{}, nil)

	_, _, err := orch.Evaluate(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, provider.callCount())
}

// TestOrchestrator_Evaluate_UnknownFramework tests framework tag
// validation on the loaded queries.
func TestOrchestrator_Evaluate_UnknownFramework(t *testing.T) {
	loader := &fakeLoader{queries: []domain.Query{
		{ID: "q1", Framework: "fortran", Text: "common blocks deprecated"},
	}}
	orch := newTestOrchestrator([]driven.ProviderAdapter{&fakeProvider{name: "exa"}}, loader, nil)

	_, _, err := orch.Evaluate(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnknownFramework)
}

// TestOrchestrator_Evaluate_ProviderValidationFailure tests that a
// misconfigured provider fails the run before dispatch.
func TestOrchestrator_Evaluate_ProviderValidationFailure(t *testing.T) {
	bad := &failingValidator{fakeProvider{name: "github"}}
	orch := newTestOrchestrator([]driven.ProviderAdapter{bad}, &fakeLoader{queries: testQueries()}, nil)

	_, _, err := orch.Evaluate(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

// TestOrchestrator_Evaluate_Cancellation tests that a cancelled
// context still yields a record for every pair.
func TestOrchestrator_Evaluate_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	providers := []driven.ProviderAdapter{&fakeProvider{name: "exa", results: goodResults()}}
	orch := newTestOrchestrator(providers, &fakeLoader{queries: testQueries()}, &fakeRunStore{})

	run, _, err := orch.Evaluate(ctx)

	// Validation runs with the cancelled context but fake collaborators
	// ignore it; the dispatch loop records each cell as failed.
	if err != nil {
		return
	}
	assert.Equal(t, 3, run.Len())
	for _, rec := range run.Records() {
		assert.Equal(t, domain.OutcomeFailed, rec.Outcome)
	}
}

// TestOrchestrator_Evaluate_StoreFailureIsNotFatal tests that a
// persistence error degrades to a warning.
func TestOrchestrator_Evaluate_StoreFailureIsNotFatal(t *testing.T) {
	store := &fakeRunStore{err: errors.New("database locked")}
	providers := []driven.ProviderAdapter{&fakeProvider{name: "exa", results: goodResults()}}
	orch := newTestOrchestrator(providers, &fakeLoader{queries: testQueries()}, store)

	run, summary, err := orch.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, run.Len())
	assert.Len(t, summary.Rankings, 1)
}

// TestOrchestrator_Evaluate_RunID tests the timestamp-derived run
// identifier.
func TestOrchestrator_Evaluate_RunID(t *testing.T) {
	providers := []driven.ProviderAdapter{&fakeProvider{name: "exa", results: goodResults()}}
	orch := newTestOrchestrator(providers, &fakeLoader{queries: testQueries()}, nil)
	orch.now = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}

	run, _, err := orch.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20250314_092653", run.ID)
}
