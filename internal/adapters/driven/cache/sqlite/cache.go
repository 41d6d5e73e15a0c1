// Package sqlite provides a persistent provider response cache backed
// by SQLite. Repeated runs against the same query set reuse cached
// responses instead of repeating external API calls.
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
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/depreval-cli/internal/adapters/driven/cache/sqlite/migrations"
	"github.com/custodia-labs/depreval-cli/internal/core/domain"
	"github.com/custodia-labs/depreval-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

// Cache is a SQLite-backed implementation of driven.ResultCache.
// Safe for concurrent use; WAL mode handles concurrent readers while
// a fetch populates an entry.
type Cache struct {
	db   *sql.DB
	path string
	ttl  time.Duration
}

// NewCache creates or opens the cache database under dir. A zero ttl
// means entries never expire.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	dbPath := filepath.Join(dir, "responses.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db, path: dbPath, ttl: ttl}
	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running cache migrations: %w", err)
	}
	return c, nil
}

// Get returns cached results for the key, or domain.ErrCacheMiss when
// the entry is absent or expired.
func (c *Cache) Get(ctx context.Context, key driven.CacheKey) ([]domain.Result, error) {
	var payload string
	var createdAt time.Time
	row := c.db.QueryRowContext(ctx,
		`SELECT results, created_at FROM responses WHERE provider = ? AND query = ? AND top_k = ?`,
		key.Provider, key.Query, key.TopK)
	if err := row.Scan(&payload, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache read: %w", err)
	}

	if c.ttl > 0 && time.Since(createdAt) > c.ttl {
		// Expired entries behave like misses; the next Put replaces them.
		return nil, domain.ErrCacheMiss
	}

	var results []domain.Result
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		// Corrupted entry: drop it and report a miss.
		_, _ = c.db.ExecContext(ctx,
			`DELETE FROM responses WHERE provider = ? AND query = ? AND top_k = ?`,
			key.Provider, key.Query, key.TopK)
		return nil, domain.ErrCacheMiss
	}
	return results, nil
}

// Put stores results for the key, overwriting any previous entry.
func (c *Cache) Put(ctx context.Context, key driven.CacheKey, results []domain.Result) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO responses (provider, query, top_k, results, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (provider, query, top_k) DO UPDATE SET results = excluded.results, created_at = excluded.created_at`,
		key.Provider, key.Query, key.TopK, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// migrate runs all pending migrations.
func (c *Cache) migrate(fsys embed.FS) error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
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
		if _, err := c.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := c.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
