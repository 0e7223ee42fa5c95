// Package sqlite provides a persistent record store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/tablecast-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// Store is a SQLite-backed record store. Record fields are stored as a
// JSON document; the resolution point query uses json_extract so lookups
// stay inside the database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.tablecast/data/records.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tablecast", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "records.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// CreateRecord persists a new record, assigning an id when none is set.
func (s *Store) CreateRecord(ctx context.Context, rec *domain.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return "", fmt.Errorf("marshalling fields: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, content_type, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.ContentType, string(fieldsJSON), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("creating record: %w", err)
	}
	return rec.ID, nil
}

// UpdateRecord overwrites an existing record identified by rec.ID.
func (s *Store) UpdateRecord(ctx context.Context, rec *domain.Record) error {
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("marshalling fields: %w", err)
	}

	rec.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE records SET content_type = ?, fields = ?, updated_at = ?
		WHERE id = ?
	`, rec.ContentType, string(fieldsJSON), rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("updating record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetRecord retrieves a record by id.
func (s *Store) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	var rec domain.Record
	var fieldsJSON string

	row := s.db.QueryRowContext(ctx, `
		SELECT id, content_type, fields, created_at, updated_at
		FROM records WHERE id = ?
	`, id)
	err := row.Scan(&rec.ID, &rec.ContentType, &fieldsJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, fmt.Errorf("unmarshalling fields: %w", err)
	}
	return &rec, nil
}

// FindRecordID answers the point query used during reference resolution:
// the id of the record whose field equals value.
func (s *Store) FindRecordID(ctx context.Context, field, value string) (string, error) {
	var id string
	row := s.db.QueryRowContext(ctx, `
		SELECT id FROM records
		WHERE json_extract(fields, '$.' || ?) = ?
		LIMIT 1
	`, field, value)
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("finding record: %w", err)
	}
	return id, nil
}

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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
