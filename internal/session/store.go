package session

import (
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// Session is one fraud-alert conversation: an immutable identity plus an
// append-only message history. The Store owns the canonical instance;
// callers only ever hold the same shared pointer and read history through
// copying accessors.
type Session struct {
	id        string
	createdAt time.Time

	mu             sync.RWMutex
	messages       []types.Message
	lastAccessedAt time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:             id,
		createdAt:      now,
		lastAccessedAt: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CreatedAt returns the construction time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastAccessedAt returns the time of the most recent append, or the
// construction time when nothing has been appended yet.
func (s *Session) LastAccessedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAccessedAt
}

// Append adds msg to the history and refreshes the access time. This is
// the only mutation a Session supports; concurrent appends serialize in
// arrival order.
func (s *Session) Append(msg types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	if now := time.Now(); now.After(s.lastAccessedAt) {
		s.lastAccessedAt = now
	}
}

// Messages returns the history in conversation order. The slice is a
// copy and never nil.
func (s *Session) Messages() []types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the history.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Info snapshots the session for the wire.
func (s *Session) Info() types.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.SessionInfo{
		ID:             s.id,
		CreatedAt:      s.createdAt,
		LastAccessedAt: s.lastAccessedAt,
		MessageCount:   len(s.messages),
	}
}

// Store is the in-memory session registry. Lookups share a read lock and
// appends only take the per-session lock, so traffic on unrelated
// sessions never serializes.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create returns the session for id, inserting a fresh one when absent.
// An empty id gets a generated ULID. The boolean reports whether this
// call created the session; when two callers race on the same id exactly
// one wins and both receive the same instance.
func (st *Store) Create(id string) (*Session, bool) {
	if id == "" {
		id = ulid.Make().String()
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if existing, ok := st.sessions[id]; ok {
		return existing, false
	}
	sess := newSession(id, time.Now())
	st.sessions[id] = sess
	return sess, true
}

// Get looks up a session without touching its access time. Absence is a
// valid outcome, not an error.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// History returns a copy of the session's messages in conversation
// order. Unknown ids yield an empty, non-nil slice, so callers cannot
// tell an unknown session from an empty one here.
func (st *Store) History(id string) []types.Message {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return []types.Message{}
	}
	return sess.Messages()
}

// Len returns the number of sessions held.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// List snapshots every session, oldest first.
func (st *Store) List() []types.SessionInfo {
	st.mu.RLock()
	infos := make([]types.SessionInfo, 0, len(st.sessions))
	for _, sess := range st.sessions {
		infos = append(infos, sess.Info())
	}
	st.mu.RUnlock()
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}
