// Package cache persists per-file discovery results between runs so large
// trees rescan quickly. Rows are keyed by file path and invalidated by
// content hash; a stale or missing row is simply a miss. The same database
// keeps a small history of scan runs.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"wirelint/internal/scanner"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS discovery_cache (
  path         TEXT PRIMARY KEY,
  content_hash TEXT NOT NULL,
  scanned_at   TEXT NOT NULL,
  payload      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
  id          TEXT PRIMARY KEY,
  started_at  TEXT NOT NULL,
  files       INTEGER NOT NULL,
  resources   INTEGER NOT NULL,
  issues      INTEGER NOT NULL,
  errors      INTEGER NOT NULL
);
`

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// Run is one recorded scan invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	Files     int
	Resources int
	Issues    int
	Errors    int
}

// NewRun allocates a run record with a fresh id.
func NewRun() Run {
	return Run{ID: uuid.NewString(), StartedAt: time.Now().UTC()}
}

// HashContent returns the cache key material for file content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("cache path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("cache path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite cache %q: %w", cleanPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the cached scan result for a file if the stored content
// hash still matches.
func (s *Store) Lookup(path, contentHash string) (*scanner.FileResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var storedHash, payload string
	err := s.db.QueryRow(
		`SELECT content_hash, payload FROM discovery_cache WHERE path = ?`, path,
	).Scan(&storedHash, &payload)
	if err != nil || storedHash != contentHash {
		return nil, false
	}

	var result scanner.FileResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Save stores a file's scan result under its content hash.
func (s *Store) Save(contentHash string, result *scanner.FileResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode cache payload for %q: %w", result.Path, err)
	}

	_, err = s.db.Exec(`
INSERT INTO discovery_cache (path, content_hash, scanned_at, payload)
VALUES (?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  content_hash = excluded.content_hash,
  scanned_at   = excluded.scanned_at,
  payload      = excluded.payload
`, result.Path, contentHash, time.Now().UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("save cache row for %q: %w", result.Path, err)
	}
	return nil
}

// RecordRun appends one scan run to the history table.
func (s *Store) RecordRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
INSERT INTO runs (id, started_at, files, resources, issues, errors)
VALUES (?, ?, ?, ?, ?, ?)
`, run.ID, run.StartedAt.Format(time.RFC3339Nano), run.Files, run.Resources, run.Issues, run.Errors)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
SELECT id, started_at, files, resources, issues, errors
FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		if err := rows.Scan(&run.ID, &started, &run.Files, &run.Resources, &run.Issues, &run.Errors); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
