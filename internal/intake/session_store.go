package intake

import (
	"sync"
	"time"

	"github.com/sidgajraj/caseline/internal/domain"
)

// SessionStore holds one in-progress intake session per conversation id.
// Entirely in-memory, process lifetime, no eviction. Sessions are created
// lazily on first reference; an empty id maps to domain.DefaultSessionID.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
}

// managedSession pairs a session with its turn lock. Turns for the same id
// must not interleave; independent sessions proceed concurrently.
type managedSession struct {
	turn sync.Mutex
	sess *domain.Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*managedSession)}
}

func normalizeID(id string) string {
	if id == "" {
		return domain.DefaultSessionID
	}
	return id
}

func (s *SessionStore) lookup(id string) *managedSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = normalizeID(id)
	ms, ok := s.sessions[id]
	if !ok {
		now := time.Now()
		ms = &managedSession{sess: &domain.Session{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		}}
		s.sessions[id] = ms
	}
	return ms
}

// Get returns the session for id, creating an all-empty one if absent. The
// record behind the returned pointer is only stable while the session's turn
// lock is held; concurrent readers use Snapshot instead.
func (s *SessionStore) Get(id string) *domain.Session {
	return s.lookup(id).sess
}

// Acquire returns the session for id with its turn lock held. The release
// function must be called when the turn completes.
func (s *SessionStore) Acquire(id string) (*domain.Session, func()) {
	ms := s.lookup(id)
	ms.turn.Lock()
	return ms.sess, ms.turn.Unlock
}

// Reset reinitializes the session's record to all-empty and clears the
// commit flag. The session keeps its id and creation time.
func (s *SessionStore) Reset(id string) {
	ms := s.lookup(id)
	ms.sess.Record = domain.CaseRecord{}
	ms.sess.Committed = false
	ms.sess.UpdatedAt = time.Now()
}

// List returns all session ids currently held.
func (s *SessionStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// SessionSnapshot is a point-in-time copy of one session's observable state,
// safe to read after the turn lock is released.
type SessionSnapshot struct {
	ID        string
	State     domain.SessionState
	Record    map[string]string
	Committed bool
}

// Snapshot copies the session's state under its turn lock. Readers must use
// this instead of Get when a turn may be in flight; the record fields behind
// Get are only stable while the turn lock is held.
func (s *SessionStore) Snapshot(id string) SessionSnapshot {
	ms := s.lookup(id)
	ms.turn.Lock()
	defer ms.turn.Unlock()

	return SessionSnapshot{
		ID:        ms.sess.ID,
		State:     ms.sess.State(),
		Record:    ms.sess.Record.Snapshot(),
		Committed: ms.sess.Committed,
	}
}

// SnapshotAll snapshots every session currently held.
func (s *SessionStore) SnapshotAll() []SessionSnapshot {
	ids := s.List()
	snaps := make([]SessionSnapshot, 0, len(ids))
	for _, id := range ids {
		snaps = append(snaps, s.Snapshot(id))
	}
	return snaps
}
