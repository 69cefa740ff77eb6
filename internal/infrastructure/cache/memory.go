package cache

import (
	"context"
	"sync"

	"github.com/recipecart/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory cache store.
// Entries live for the lifetime of the process and are never evicted.
type MemoryStore struct {
	data  map[string]string
	mutex sync.RWMutex
}

var _ domain.CacheStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// Get retrieves a value from the store
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	return value, exists
}

// Put stores a value, replacing any previous value for the key
func (s *MemoryStore) Put(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
	return nil
}

// Len returns the current number of entries
func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Entries returns a copy of all entries
func (s *MemoryStore) Entries() map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return copyEntries(s.data)
}

func copyEntries(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
