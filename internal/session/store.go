package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lightmail/lightmail/internal/models"
)

// Session binds an opaque id to a user's live credentials and resolved
// account context. Endpoint and AccountID are fixed at creation and reused
// for every call made on the session's behalf.
type Session struct {
	ID string
	models.Credentials
	Endpoint  string
	AccountID string
	CreatedAt time.Time
}

// Store is a concurrent map from session id to session. Lookups (the common
// case, one per incoming request) run in parallel; Create and Remove are
// exclusive with all other access. Sessions are never persisted: a process
// restart logs everyone out.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create mints a session for the given credentials and account context and
// returns its id. Ids are UUIDv7: a millisecond timestamp prefix plus 74
// random bits, so they sort chronologically and cannot be enumerated.
func (s *Store) Create(creds models.Credentials, endpoint, accountID string) string {
	id := uuid.Must(uuid.NewV7()).String()
	sess := &Session{
		ID:          id,
		Credentials: creds,
		Endpoint:    endpoint,
		AccountID:   accountID,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess

	return id
}

// Get returns the session for the given id, or false if it does not exist.
// The caller borrows the session for the duration of one request; the store
// remains its only owner.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove deletes the session for the given id. Removing an unknown id is a
// no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
