// Package db provides PostgreSQL storage for raw and parsed documents.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/recruitment-manager/internal/types"
)

// defaultListLimit caps ListRaw when no limit is given
const defaultListLimit = 100

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Pool exposes the underlying pool for stores sharing the connection
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// InsertRaw records an ingested file with status pending and returns its ID
func (db *DB) InsertRaw(ctx context.Context, kind types.DocumentKind, filename, path string) (int64, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}

	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO `+kind.RawTable()+` (filename, file_path, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		filename, path, types.StatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s raw record: %w", kind, err)
	}
	return id, nil
}

// SetRawStatus updates the status of a raw record
func (db *DB) SetRawStatus(ctx context.Context, kind types.DocumentKind, id int64, status types.RawStatus, errMsg string) error {
	if err := checkKind(kind); err != nil {
		return err
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE `+kind.RawTable()+` SET status = $1, error_message = $2 WHERE id = $3`,
		status, nullIfEmpty(errMsg), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s raw status: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s raw record %d not found", kind, id)
	}
	return nil
}

// InsertParsed stores the parsed record and marks the raw record parsed in one transaction
func (db *DB) InsertParsed(ctx context.Context, kind types.DocumentKind, rawID int64, fields types.ParsedFields) (int64, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	if fields == nil || fields.Kind() != kind {
		return 0, fmt.Errorf("parsed fields do not match document kind %s", kind)
	}

	parsedJSON, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal parsed fields: %w", err)
	}

	columns, args := parsedColumns(kind, rawID, fields, parsedJSON)
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO `+kind.ParsedTable()+` (`+strings.Join(columns, ", ")+`)
		 VALUES (`+strings.Join(placeholders, ", ")+`)
		 RETURNING id`,
		args...,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s parsed record: %w", kind, err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE `+kind.RawTable()+` SET status = $1, error_message = NULL WHERE id = $2`,
		types.StatusParsed, rawID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark %s raw record parsed: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%s raw record %d not found", kind, rawID)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// GetRaw returns a raw record by ID, or nil if it does not exist
func (db *DB) GetRaw(ctx context.Context, kind types.DocumentKind, id int64) (*types.RawDocument, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	doc := types.RawDocument{Kind: kind}
	var errMsg *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, filename, file_path, upload_date, status, error_message
		 FROM `+kind.RawTable()+` WHERE id = $1`,
		id,
	).Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &doc.UploadedAt, &doc.Status, &errMsg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s raw record: %w", kind, err)
	}
	if errMsg != nil {
		doc.ErrorMessage = *errMsg
	}
	return &doc, nil
}

// ListRaw returns the most recent raw records first
func (db *DB) ListRaw(ctx context.Context, kind types.DocumentKind, limit int) ([]types.RawDocument, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, filename, file_path, upload_date, status, error_message
		 FROM `+kind.RawTable()+` ORDER BY id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s raw records: %w", kind, err)
	}
	defer rows.Close()

	docs := []types.RawDocument{}
	for rows.Next() {
		doc := types.RawDocument{Kind: kind}
		var errMsg *string
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.SourcePath, &doc.UploadedAt, &doc.Status, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan %s raw record: %w", kind, err)
		}
		if errMsg != nil {
			doc.ErrorMessage = *errMsg
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// GetParsed returns a parsed record by ID, or nil if it does not exist
func (db *DB) GetParsed(ctx context.Context, kind types.DocumentKind, id int64) (*types.ParsedDocument, error) {
	return db.getParsed(ctx, kind, "id", id)
}

// GetParsedByRawID returns the newest parsed record for a raw record, or nil
func (db *DB) GetParsedByRawID(ctx context.Context, kind types.DocumentKind, rawID int64) (*types.ParsedDocument, error) {
	return db.getParsed(ctx, kind, kind.RawForeignKey(), rawID)
}

func (db *DB) getParsed(ctx context.Context, kind types.DocumentKind, keyColumn string, key int64) (*types.ParsedDocument, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	doc := types.ParsedDocument{Kind: kind}
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, `+kind.RawForeignKey()+`, parsed_data, parsed_date
		 FROM `+kind.ParsedTable()+` WHERE `+keyColumn+` = $1
		 ORDER BY id DESC LIMIT 1`,
		key,
	).Scan(&doc.ID, &doc.RawID, &data, &doc.ParsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s parsed record: %w", kind, err)
	}

	fields, err := types.DecodeFields(kind, data)
	if err != nil {
		return nil, err
	}
	doc.Fields = fields
	return &doc, nil
}

// nullIfEmpty returns nil for empty strings, for nullable columns
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
