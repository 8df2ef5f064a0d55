package core

import (
	"sync"
	"time"
)

// SessionStore keeps sessions in memory. Nothing survives a restart.
//
// Stored sessions are treated as immutable: updates replace the pointer.
// When the store is full the oldest session is evicted.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl and which
// holds at most capacity sessions. Non-positive values disable the limit.
func NewSessionStore(ttl time.Duration, capacity int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the session with the given ID, or ErrSessionNotFound when it
// does not exist or has expired.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(sess) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Put stores sess under its ID, replacing any previous value.
func (s *SessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; !exists && s.capacity > 0 && len(s.sessions) >= s.capacity {
		s.evictOldestLocked()
	}
	s.sessions[sess.ID] = sess
}

// Swap replaces the session only if the stored value is still prev. It
// reports false when another request replaced or removed it first.
func (s *SessionStore) Swap(prev, next *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[prev.ID] != prev {
		return false
	}
	s.sessions[next.ID] = next
	return true
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) expired(sess *Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.CreatedAt) > s.ttl
}

func (s *SessionStore) evictOldestLocked() {
	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.CreatedAt.Before(oldest.CreatedAt) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.ID)
	}
}
