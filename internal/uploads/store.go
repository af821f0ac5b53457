// Package uploads persists validated intake attachments. Only the returned
// storage key ever reaches the lead record; the bytes stay in the store.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// Store persists an upload under the given key and returns the key it can be
// retrieved by.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// MemoryStore keeps uploads in memory, used in development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates a new in-memory upload store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put stores the upload's bytes under key.
func (s *MemoryStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("uploads: read body: %w", err)
	}
	s.mu.Lock()
	s.objects[key] = buf.Bytes()
	s.mu.Unlock()
	return key, nil
}

// Get returns a stored upload's bytes, or false when absent.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}
