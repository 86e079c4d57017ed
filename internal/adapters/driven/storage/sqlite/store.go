package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sindhuchary/alveo-uima/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/sindhuchary/alveo-uima/internal/core/domain"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
)

// Store is the SQLite-backed metadata store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.alveo/data/journal.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".alveo", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "journal.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Journal returns an UploadJournal interface backed by this store.
func (s *Store) Journal() driven.UploadJournal {
	return &uploadJournal{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
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

// ==================== Upload Journal ====================

// uploadJournal implements driven.UploadJournal.
type uploadJournal struct {
	store *Store
}

var _ driven.UploadJournal = (*uploadJournal)(nil)

// RecordCycle appends one cycle record.
func (j *uploadJournal) RecordCycle(ctx context.Context, rec domain.CycleRecord) error {
	if rec.ID == "" || rec.ItemURI == "" {
		return domain.ErrInvalidInput
	}

	_, err := j.store.db.ExecContext(ctx, `
		INSERT INTO upload_cycles (id, item_uri, started_at, uploaded, chunks, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ItemURI,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Uploaded, rec.Chunks, string(rec.Status),
		nullString(rec.Error))

	if err != nil {
		return fmt.Errorf("recording upload cycle: %w", err)
	}
	return nil
}

// History returns the recorded cycles for an item, newest first. An
// empty itemURI returns all records.
func (j *uploadJournal) History(ctx context.Context, itemURI string) ([]domain.CycleRecord, error) {
	query := `
		SELECT id, item_uri, started_at, uploaded, chunks, status, error
		FROM upload_cycles
	`
	args := []any{}
	if itemURI != "" {
		query += " WHERE item_uri = ?"
		args = append(args, itemURI)
	}
	query += " ORDER BY started_at DESC"

	rows, err := j.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying upload cycles: %w", err)
	}
	defer rows.Close()

	var records []domain.CycleRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanCycleRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating upload cycles: %w", err)
	}

	return records, nil
}

// ==================== Helper Functions ====================

// scanCycleRecord scans a cycle record from *sql.Rows.
func scanCycleRecord(rows *sql.Rows) (*domain.CycleRecord, error) {
	var rec domain.CycleRecord
	var startedAt, status string
	var errMsg sql.NullString

	if err := rows.Scan(&rec.ID, &rec.ItemURI, &startedAt,
		&rec.Uploaded, &rec.Chunks, &status, &errMsg); err != nil {
		return nil, fmt.Errorf("scanning upload cycle: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		rec.StartedAt = t
	}
	rec.Status = domain.CycleStatus(status)
	if errMsg.Valid {
		rec.Error = errMsg.String
	}

	return &rec, nil
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
