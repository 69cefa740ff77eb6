package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/recipecart/backend/internal/domain"
)

// FileStore is a cache store backed by a single JSON object file.
//
// Every Put rewrites the whole file through a temp file in the same directory
// followed by fsync and rename, so the file on disk always holds a complete
// mapping. A crash loses at most the entry being written.
type FileStore struct {
	path  string
	data  map[string]string
	mutex sync.RWMutex
}

var _ domain.CacheStore = (*FileStore)(nil)

// OpenFileStore loads the store at path. A missing file yields an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: cache file path is empty", domain.ErrStorage)
	}

	store := &FileStore{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStorage, path, err)
	}
	if len(raw) == 0 {
		return store, nil
	}

	if err := json.Unmarshal(raw, &store.data); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStorage, path, err)
	}
	if store.data == nil {
		store.data = make(map[string]string)
	}

	log.Printf("[CACHE] Loaded %d entries from %s", len(store.data), path)
	return store, nil
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Get retrieves a value from the store
func (s *FileStore) Get(ctx context.Context, key string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	return value, exists
}

// Put stores a value and durably saves the file before returning.
// If saving fails the in-memory mapping is rolled back.
func (s *FileStore) Put(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	previous, existed := s.data[key]
	s.data[key] = value

	if err := s.saveLocked(); err != nil {
		if existed {
			s.data[key] = previous
		} else {
			delete(s.data, key)
		}
		return err
	}

	return nil
}

// Save writes the current mapping to disk
func (s *FileStore) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.saveLocked()
}

// Len returns the current number of entries
func (s *FileStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Entries returns a copy of all entries
func (s *FileStore) Entries() map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return copyEntries(s.data)
}

// saveLocked writes the mapping atomically. Caller must hold the write lock.
func (s *FileStore) saveLocked() error {
	contents, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrStorage, s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", domain.ErrStorage, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, s.path, err)
	}

	if _, err := tmp.Write(contents); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStorage, s.path, err)
	}

	syncDir(dir)
	return nil
}

// syncDir makes a best-effort fsync of the parent directory
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
