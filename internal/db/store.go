package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/recruitment-manager/internal/db/sqlite"
	"github.com/jonathan/recruitment-manager/internal/types"
)

// Store persists raw and parsed documents. Lookups return (nil, nil) when
// the record does not exist.
type Store interface {
	InsertRaw(ctx context.Context, kind types.DocumentKind, filename, path string) (int64, error)
	SetRawStatus(ctx context.Context, kind types.DocumentKind, id int64, status types.RawStatus, errMsg string) error
	// InsertParsed writes the parsed row and flips the raw row to parsed atomically.
	InsertParsed(ctx context.Context, kind types.DocumentKind, rawID int64, fields types.ParsedFields) (int64, error)
	GetRaw(ctx context.Context, kind types.DocumentKind, id int64) (*types.RawDocument, error)
	ListRaw(ctx context.Context, kind types.DocumentKind, limit int) ([]types.RawDocument, error)
	GetParsed(ctx context.Context, kind types.DocumentKind, id int64) (*types.ParsedDocument, error)
	GetParsedByRawID(ctx context.Context, kind types.DocumentKind, rawID int64) (*types.ParsedDocument, error)
	Close() error
}

var _ Store = (*sqlite.Store)(nil)

// IsPostgresURL reports whether url names a PostgreSQL database
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// Open connects to PostgreSQL for postgres URLs and runs its migrations;
// anything else is treated as a SQLite database file path.
func Open(ctx context.Context, url string) (Store, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	if IsPostgresURL(url) {
		pg, err := Connect(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		return pg, nil
	}

	return sqlite.Open(url)
}

// parsedColumns returns the column names and values of a parsed-table insert,
// in the order foreign key, denormalized fields, full JSON.
func parsedColumns(kind types.DocumentKind, rawID int64, fields types.ParsedFields, parsedJSON []byte) ([]string, []any) {
	cols := fields.Columns()
	names := make([]string, 0, len(cols)+2)
	args := make([]any, 0, len(cols)+2)

	names = append(names, kind.RawForeignKey())
	args = append(args, rawID)
	for _, c := range cols {
		names = append(names, c.Name)
		args = append(args, c.Value)
	}
	names = append(names, "parsed_data")
	args = append(args, parsedJSON)

	return names, args
}

func checkKind(kind types.DocumentKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown document kind %q", kind)
	}
	return nil
}
