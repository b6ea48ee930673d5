package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore persists entries to a single JSON document: a mapping from
// fingerprint to entry. The whole document is rewritten on every Put
// (write-through), so a translation paid for once is never lost to a crash
// later in the run.
//
// The file is forward-readable: unknown fields in an entry are ignored on
// load. A corrupt file is treated as an empty cache and logged, never fatal.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[string]Entry
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileLogger sets the logger used for load/persist diagnostics.
func WithFileLogger(logger *zap.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore opens (or creates) the cache file at path and loads any
// existing entries. The parent directory is created if missing.
func NewFileStore(path string, opts ...FileStoreOption) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		logger:  zap.NewNop(),
		entries: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	s.load()
	return s, nil
}

// load reads the cache file into memory. Missing file means a cold cache;
// a malformed file is logged and treated as empty.
func (s *FileStore) load() {
	data, err := os.ReadFile(s.path) // #nosec G304 - cache path is owned by the caller
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read cache file, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("cache file is corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	for fp, entry := range raw {
		entry.Fingerprint = fp
		s.entries[fp] = entry
	}

	s.logger.Info("loaded cached translations",
		zap.String("path", s.path), zap.Int("count", len(s.entries)))
}

// Get retrieves an entry by fingerprint.
func (s *FileStore) Get(fingerprint string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[fingerprint]
	return entry, ok
}

// Put stores an entry and writes the document through to disk. First write
// wins. A persist failure leaves the entry readable in memory for the rest
// of the run; the error is returned for the caller to log.
func (s *FileStore) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.Fingerprint]; exists {
		return nil
	}
	s.entries[entry.Fingerprint] = entry

	return s.persistLocked()
}

// Len returns the number of entries.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of all entries keyed by fingerprint.
func (s *FileStore) Entries() map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]Entry, len(s.entries))
	for fp, entry := range s.entries {
		result[fp] = entry
	}
	return result
}

// Flush rewrites the cache file from memory. Put already writes through, so
// Flush is only needed after out-of-band mutation such as Import.
func (s *FileStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// Path returns the cache file path.
func (s *FileStore) Path() string {
	return s.path
}

// persistLocked writes the document atomically via a temp file rename.
// Must be called with the write lock held.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing cache file: %w", err)
	}

	return nil
}

// Verify FileStore implements Store
var _ Store = (*FileStore)(nil)
