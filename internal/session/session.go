package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/content-synth/internal/models"
)

// ErrNotFound is returned for unknown or ended sessions
var ErrNotFound = errors.New("session not found")

// Session is one user's working context: an append-only history of
// successful generations plus the most recent result.
type Session struct {
	id        string
	createdAt time.Time

	mu         sync.RWMutex
	lastActive time.Time
	history    []*models.GenerationResult
}

// New creates a session with a fresh ID
func New() *Session {
	now := time.Now()
	return &Session{
		id:         uuid.NewString(),
		createdAt:  now,
		lastActive: now,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was started
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastActive returns the time of the last append or read
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// Touch marks the session as active
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// Append records a successful generation. Entries are never modified or removed.
func (s *Session) Append(r *models.GenerationResult) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, r)
	s.lastActive = time.Now()
}

// History returns the results in chronological order
func (s *Session) History() []*models.GenerationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.GenerationResult, len(s.history))
	copy(out, s.history)
	return out
}

// Current returns the most recent result, or nil before the first generation
func (s *Session) Current() *models.GenerationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return nil
	}
	return s.history[len(s.history)-1]
}

// Len returns the number of results in the history
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Store keeps live sessions isolated from each other by ID
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create starts a new session and registers it
func (st *Store) Create() *Session {
	s := New()
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

// Get returns a live session and marks it active
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	s.Touch()
	return s, nil
}

// End discards a session and its history
func (st *Store) End(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(st.sessions, id)
	return nil
}

// Reap ends every session idle for longer than maxIdle and returns their IDs
func (st *Store) Reap(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()

	var ended []string
	for id, s := range st.sessions {
		if s.LastActive().Before(cutoff) {
			delete(st.sessions, id)
			ended = append(ended, id)
		}
	}
	return ended
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
