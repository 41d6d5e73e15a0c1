// Package sqlite persists evaluation runs and their metric records.
// One row per (query, provider) record; summaries are derived data and
// are recomputed from the rows rather than stored.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/runstore/sqlite/migrations"
	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RunStore = (*Store)(nil)

// Store is a SQLite-backed implementation of driven.RunStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates or opens the run database under dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dir, "runs.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening run database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running run store migrations: %w", err)
	}
	return s, nil
}

// SaveRun writes a run and all its records in one transaction.
// Saving an existing run id replaces its records.
func (s *Store) SaveRun(ctx context.Context, run driven.StoredRun) error {
	providers, err := json.Marshal(run.Providers)
	if err != nil {
		return fmt.Errorf("encode providers: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, queries, providers) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET queries = excluded.queries, providers = excluded.providers`,
		run.ID, run.Queries, string(providers)); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clear records for %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, query_id, provider, framework, deprecation_at_k,
		 replacement_coverage, authority_at_k, time_to_solution, result_count, outcome, failure_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range run.Records {
		if _, err := stmt.ExecContext(ctx,
			run.ID, rec.QueryID, rec.Provider, string(rec.Framework),
			rec.DeprecationAtK, rec.ReplacementCoverage, int(rec.AuthorityAtK),
			rec.TimeToSolution, rec.ResultCount, string(rec.Outcome), rec.FailureReason); err != nil {
			return fmt.Errorf("save record %s/%s: %w", rec.QueryID, rec.Provider, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun returns a run and its records, or domain.ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (driven.StoredRun, error) {
	var run driven.StoredRun
	var providers string
	row := s.db.QueryRowContext(ctx, `SELECT id, queries, providers FROM runs WHERE id = ?`, id)
	if err := row.Scan(&run.ID, &run.Queries, &providers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return driven.StoredRun{}, domain.ErrNotFound
		}
		return driven.StoredRun{}, fmt.Errorf("read run %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(providers), &run.Providers); err != nil {
		return driven.StoredRun{}, fmt.Errorf("decode providers for %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT query_id, provider, framework, deprecation_at_k, replacement_coverage,
		 authority_at_k, time_to_solution, result_count, outcome, failure_reason
		 FROM records WHERE run_id = ? ORDER BY query_id, provider`, id)
	if err != nil {
		return driven.StoredRun{}, fmt.Errorf("read records for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.MetricRecord
		var framework, outcome string
		var authority int
		if err := rows.Scan(&rec.QueryID, &rec.Provider, &framework, &rec.DeprecationAtK,
			&rec.ReplacementCoverage, &authority, &rec.TimeToSolution,
			&rec.ResultCount, &outcome, &rec.FailureReason); err != nil {
			return driven.StoredRun{}, fmt.Errorf("scan record: %w", err)
		}
		rec.Framework = domain.Framework(framework)
		rec.AuthorityAtK = domain.AuthorityTier(authority)
		rec.Outcome = domain.RunOutcome(outcome)
		run.Records = append(run.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return driven.StoredRun{}, fmt.Errorf("iterate records: %w", err)
	}
	return run, nil
}

// ListRuns returns stored run ids, newest first. Run ids are
// timestamp-derived, so lexical order matches chronological order.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
