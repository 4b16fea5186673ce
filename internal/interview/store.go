package interview

import (
	"fmt"
	"sort"
	"sync"
)

// SessionStore holds sessions in memory. Each session has its own lock, so
// work on one session never waits for another.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *Session
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*sessionEntry)}
}

// Create registers a new session. IDs must be unique.
func (s *SessionStore) Create(session *Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %q already exists", session.ID)
	}
	s.sessions[session.ID] = &sessionEntry{session: session}
	return nil
}

// With runs fn with exclusive access to the session. It returns a
// *NotFoundError when the ID is unknown.
func (s *SessionStore) With(id string, fn func(*Session) error) error {
	entry := s.entry(id)
	if entry == nil {
		return &NotFoundError{SessionID: id}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

// Get returns a copy of the session
func (s *SessionStore) Get(id string) (*Session, bool) {
	var snapshot *Session
	err := s.With(id, func(sess *Session) error {
		snapshot = sess.clone()
		return nil
	})
	return snapshot, err == nil
}

// List returns copies of all sessions ordered by start time
func (s *SessionStore) List() []*Session {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]*Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.session.clone())
		e.mu.Unlock()
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Len returns the number of sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) entry(id string) *sessionEntry {
	if id == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}
