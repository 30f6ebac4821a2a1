package session

import (
	"context"
	"sync"
	"time"

	"github.com/civisense/natlas-backend/internal/model/chat"
)

type memoryEntry struct {
	turns     []chat.Turn
	expiresAt time.Time
}

// MemoryStore implements Store with an in-memory map. It backs tests and
// development setups without a reachable Redis.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore bootstraps an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Load returns a copy of the stored history, or empty when the entry is
// missing or expired.
func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[sessionID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}

	copied := make([]chat.Turn, len(entry.turns))
	copy(copied, entry.turns)
	return copied, nil
}

// Save replaces the stored history and slides the expiry to ttl from now.
func (s *MemoryStore) Save(_ context.Context, sessionID string, turns []chat.Turn, ttl time.Duration) error {
	copied := make([]chat.Turn, len(turns))
	copy(copied, turns)

	s.mu.Lock()
	s.entries[sessionID] = memoryEntry{turns: copied, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Delete removes the entry unconditionally.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}
