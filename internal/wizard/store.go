package wizard

import (
	"context"
	"sync"
	"time"
)

// Store persists wizard sessions for the duration of one intake journey.
// Sessions expire after the configured TTL; a session is never partially
// persisted as a lead.
type Store interface {
	Put(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	sess      *Session
	expiresAt time.Time
}

// MemoryStore is a Store backed by a map, used in development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an in-memory session store. A non-positive ttl
// disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put saves the session, refreshing its TTL.
func (s *MemoryStore) Put(ctx context.Context, sess *Session) error {
	entry := memoryEntry{sess: sess.clone()}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.sessions[sess.ID] = entry
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the stored session, or ErrSessionNotFound when it is
// missing or has expired.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return entry.sess.clone(), nil
}

// Delete removes the session if present.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
