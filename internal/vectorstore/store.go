// Package vectorstore keeps job description embeddings for semantic ranking.
package vectorstore

import (
	"context"
	"sync"
	"time"
)

// Record is one embedded document
type Record struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Model     string    `json:"model"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"created_at"`
}

// Store adds and retrieves embedded documents. Get and Latest return
// (nil, nil) when nothing matches.
type Store interface {
	// Add inserts the record, replacing any record with the same ID
	Add(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// Latest returns the most recently added record
	Latest(ctx context.Context) (*Record, error)
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record), now: time.Now}
}

// Add implements Store
func (m *MemoryStore) Add(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.now()
	}
	rec.Embedding = append([]float32(nil), rec.Embedding...)

	if _, exists := m.records[rec.ID]; exists {
		for i, id := range m.order {
			if id == rec.ID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.records[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return nil
}

// Get implements Store
func (m *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Latest implements Store
func (m *MemoryStore) Latest(_ context.Context) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.order) == 0 {
		return nil, nil
	}
	rec := m.records[m.order[len(m.order)-1]]
	return &rec, nil
}

// Len returns the number of stored records
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
