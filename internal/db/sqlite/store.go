// Package sqlite provides the SQLite document store used for local runs.
package sqlite

import (
	"context"
	"database/sql"
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

	"github.com/jonathan/recruitment-manager/internal/db/sqlite/migrations"
	"github.com/jonathan/recruitment-manager/internal/types"
)

const defaultListLimit = 100

// Store is a SQLite-backed document store
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database file at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// WAL lets the HTTP server read while an ingestion batch writes
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}

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

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
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
		// "001_documents.up.sql" -> 1
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

// InsertRaw records an ingested file with status pending.
func (s *Store) InsertRaw(ctx context.Context, kind types.DocumentKind, filename, path string) (int64, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+kind.RawTable()+` (filename, file_path, upload_date, status) VALUES (?, ?, ?, ?)`,
		filename, path, time.Now().UTC(), string(types.StatusPending),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting %s raw record: %w", kind, err)
	}
	return res.LastInsertId()
}

// SetRawStatus updates the status of a raw record.
func (s *Store) SetRawStatus(ctx context.Context, kind types.DocumentKind, id int64, status types.RawStatus, errMsg string) error {
	if err := checkKind(kind); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+kind.RawTable()+` SET status = ?, error_message = ? WHERE id = ?`,
		string(status), nullString(errMsg), id,
	)
	if err != nil {
		return fmt.Errorf("updating %s raw status: %w", kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s raw record %d not found", kind, id)
	}
	return nil
}

// InsertParsed stores the parsed record and marks the raw record parsed in one transaction.
func (s *Store) InsertParsed(ctx context.Context, kind types.DocumentKind, rawID int64, fields types.ParsedFields) (int64, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	if fields == nil || fields.Kind() != kind {
		return 0, fmt.Errorf("parsed fields do not match document kind %s", kind)
	}

	parsedJSON, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("marshalling parsed fields: %w", err)
	}

	cols := fields.Columns()
	names := []string{kind.RawForeignKey()}
	args := []any{rawID}
	for _, c := range cols {
		names = append(names, c.Name)
		args = append(args, c.Value)
	}
	names = append(names, "parsed_date", "parsed_data")
	args = append(args, time.Now().UTC(), string(parsedJSON))

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO `+kind.ParsedTable()+` (`+strings.Join(names, ", ")+`) VALUES (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting %s parsed record: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading parsed record id: %w", err)
	}

	upd, err := tx.ExecContext(ctx,
		`UPDATE `+kind.RawTable()+` SET status = ?, error_message = NULL WHERE id = ?`,
		string(types.StatusParsed), rawID,
	)
	if err != nil {
		return 0, fmt.Errorf("marking %s raw record parsed: %w", kind, err)
	}
	if n, _ := upd.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("%s raw record %d not found", kind, rawID)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// GetRaw returns a raw record by ID, or nil if it does not exist.
func (s *Store) GetRaw(ctx context.Context, kind types.DocumentKind, id int64) (*types.RawDocument, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, file_path, upload_date, status, error_message
		 FROM `+kind.RawTable()+` WHERE id = ?`, id)

	doc, err := scanRaw(row, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning %s raw record: %w", kind, err)
	}
	return doc, nil
}

// ListRaw returns the most recent raw records first.
func (s *Store) ListRaw(ctx context.Context, kind types.DocumentKind, limit int) ([]types.RawDocument, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, file_path, upload_date, status, error_message
		 FROM `+kind.RawTable()+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying %s raw records: %w", kind, err)
	}
	defer rows.Close()

	docs := []types.RawDocument{}
	for rows.Next() {
		doc, err := scanRaw(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s raw record: %w", kind, err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// GetParsed returns a parsed record by ID, or nil if it does not exist.
func (s *Store) GetParsed(ctx context.Context, kind types.DocumentKind, id int64) (*types.ParsedDocument, error) {
	return s.getParsed(ctx, kind, "id", id)
}

// GetParsedByRawID returns the newest parsed record for a raw record, or nil.
func (s *Store) GetParsedByRawID(ctx context.Context, kind types.DocumentKind, rawID int64) (*types.ParsedDocument, error) {
	return s.getParsed(ctx, kind, kind.RawForeignKey(), rawID)
}

func (s *Store) getParsed(ctx context.Context, kind types.DocumentKind, keyColumn string, key int64) (*types.ParsedDocument, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, `+kind.RawForeignKey()+`, parsed_data, parsed_date
		 FROM `+kind.ParsedTable()+` WHERE `+keyColumn+` = ?
		 ORDER BY id DESC LIMIT 1`, key)

	doc := types.ParsedDocument{Kind: kind}
	var data string
	var parsedAt sql.NullTime
	if err := row.Scan(&doc.ID, &doc.RawID, &data, &parsedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning %s parsed record: %w", kind, err)
	}
	if parsedAt.Valid {
		doc.ParsedAt = parsedAt.Time
	}

	fields, err := types.DecodeFields(kind, []byte(data))
	if err != nil {
		return nil, err
	}
	doc.Fields = fields
	return &doc, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRaw(row scanner, kind types.DocumentKind) (*types.RawDocument, error) {
	doc := types.RawDocument{Kind: kind}
	var status string
	var uploadedAt sql.NullTime
	var errMsg sql.NullString
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &uploadedAt, &status, &errMsg); err != nil {
		return nil, err
	}
	doc.Status = types.RawStatus(status)
	doc.ErrorMessage = errMsg.String
	if uploadedAt.Valid {
		doc.UploadedAt = uploadedAt.Time
	}
	return &doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func checkKind(kind types.DocumentKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown document kind %q", kind)
	}
	return nil
}
