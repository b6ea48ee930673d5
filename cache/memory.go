package cache

import "sync"

// MemoryStore is a thread-safe in-memory store. Entries never expire; the
// workload is a bounded number of feed articles per run, not a live service.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Get retrieves an entry by fingerprint.
func (s *MemoryStore) Get(fingerprint string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[fingerprint]
	return entry, ok
}

// Put stores an entry. First write wins.
func (s *MemoryStore) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.Fingerprint]; exists {
		return nil
	}
	s.entries[entry.Fingerprint] = entry
	return nil
}

// Len returns the number of entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of all entries keyed by fingerprint.
func (s *MemoryStore) Entries() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]Entry, len(s.entries))
	for fp, entry := range s.entries {
		result[fp] = entry
	}
	return result
}

// Verify MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
