// Package session keeps the live answer sequence of each user in process
// memory.
//
// A session is created by GetOrCreate on the first answer, grows with every
// Append, and is removed by Delete at finalization. There is no expiry: a
// session that is never finalized stays in memory for the life of the
// process. Entries are not shared across processes.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
)

// Store maps a user identifier to at most one live session.
//
// The mutex only protects the map and slices against corruption. Callers are
// not serialized per user: two concurrent submissions for the same user both
// run their generation call and append in the order they complete.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	now      func() time.Time
	newID    func() string
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// GetOrCreate returns the live session for userID, creating one with a fresh
// session ID and start time if none exists. The returned value is a snapshot.
func (s *Store) GetOrCreate(userID string) model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &model.Session{
			SessionID: s.newID(),
			UserID:    userID,
			StartTime: s.now(),
		}
		s.sessions[userID] = sess
	}
	return snapshot(sess)
}

// Get returns a snapshot of the live session for userID.
func (s *Store) Get(userID string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return model.Session{}, false
	}
	return snapshot(sess), true
}

// Append records an answer and its evaluation on the session identified by
// sessionID. It reports false when that session is no longer live for the
// user, for example because it was finalized while the answer was scored.
func (s *Store) Append(userID, sessionID string, answer model.AnswerEntry, eval model.Evaluation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || sess.SessionID != sessionID {
		return false
	}
	sess.Answers = append(sess.Answers, answer)
	sess.Evaluations = append(sess.Evaluations, eval)
	return true
}

// Delete removes the live session for userID. Deleting an absent session is a
// no-op.
func (s *Store) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func snapshot(sess *model.Session) model.Session {
	out := *sess
	out.Answers = append([]model.AnswerEntry(nil), sess.Answers...)
	out.Evaluations = append([]model.Evaluation(nil), sess.Evaluations...)
	return out
}
