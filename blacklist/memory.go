package blacklist

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	graceUntil time.Time
	expiresAt  time.Time
	forever    bool
}

func (e memoryEntry) retired(now time.Time) bool {
	if e.forever {
		return false
	}
	return now.After(e.expiresAt) && now.After(e.graceUntil)
}

// MemoryStore is an in-process Blacklist for tests and single-node use.
// Entries whose token expiry and grace window have both passed are dropped
// lazily on access; there is no background sweeper.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}}
}

// Add implements Blacklist.
func (s *MemoryStore) Add(_ context.Context, jti string, graceUntil, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = memoryEntry{graceUntil: graceUntil, expiresAt: expiresAt}
	return nil
}

// AddForever implements Blacklist.
func (s *MemoryStore) AddForever(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = memoryEntry{forever: true}
	return nil
}

// Has implements Blacklist.
func (s *MemoryStore) Has(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	now := time.Now()
	if entry.retired(now) {
		delete(s.entries, jti)
		return false, nil
	}
	if entry.forever {
		return true, nil
	}
	return !now.Before(entry.graceUntil), nil
}

// Remove implements Blacklist.
func (s *MemoryStore) Remove(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, jti)
	return nil
}

// Clear implements Blacklist.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]memoryEntry{}
	return nil
}

// Len reports the number of live entries, counting lazily retired ones out.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for jti, entry := range s.entries {
		if entry.retired(now) {
			delete(s.entries, jti)
			continue
		}
		count++
	}
	return count
}
