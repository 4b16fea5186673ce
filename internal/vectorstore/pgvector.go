package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PGStore stores embeddings in a pgvector column
type PGStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PGStore)(nil)

// NewPGStore returns a store using pool. Call EnsureSchema before first use.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// EnsureSchema creates the vector extension and the jd_embeddings table
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS jd_embeddings (
			id         TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			model      TEXT NOT NULL DEFAULT '',
			embedding  vector NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create embeddings schema: %w", err)
	}
	return nil
}

// Add implements Store
func (s *PGStore) Add(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record ID is required")
	}
	if len(rec.Embedding) == 0 {
		return fmt.Errorf("record %s has no embedding", rec.ID)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO jd_embeddings (id, content, model, embedding)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET content = $2, model = $3, embedding = $4, created_at = NOW()`,
		rec.ID, rec.Text, rec.Model, pgvector.NewVector(rec.Embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to add embedding %s: %w", rec.ID, err)
	}
	return nil
}

// Get implements Store
func (s *PGStore) Get(ctx context.Context, id string) (*Record, error) {
	return s.queryOne(ctx,
		`SELECT id, content, model, embedding, created_at FROM jd_embeddings WHERE id = $1`, id)
}

// Latest implements Store
func (s *PGStore) Latest(ctx context.Context) (*Record, error) {
	return s.queryOne(ctx,
		`SELECT id, content, model, embedding, created_at FROM jd_embeddings ORDER BY created_at DESC LIMIT 1`)
}

func (s *PGStore) queryOne(ctx context.Context, query string, args ...any) (*Record, error) {
	var rec Record
	var vec pgvector.Vector
	err := s.pool.QueryRow(ctx, query, args...).Scan(&rec.ID, &rec.Text, &rec.Model, &vec, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}
	rec.Embedding = vec.Slice()
	return &rec, nil
}
