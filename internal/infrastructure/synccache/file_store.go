package synccache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore keeps the hash mapping in memory and persists it as one JSON
// document: { entityType: { naturalKey: hashHex } }. It is read in full at
// process start and written in full at the end of a successful run.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu     sync.RWMutex
	hashes map[string]map[string]string
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.Named("synccache"),
		hashes: make(map[string]map[string]string),
	}
}

// Load reads the whole cache file. A missing file is a first run, not an
// error; a corrupt file is discarded with a warning since every record will
// simply be retransmitted.
func (s *FileStore) Load(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load cache file: %w", err)
	}

	var hashes map[string]map[string]string
	if err := json.Unmarshal(data, &hashes); err != nil {
		s.logger.Warn("cache file is corrupt, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return nil
	}
	if hashes == nil {
		// "null" is valid JSON; keep the empty map from the constructor.
		return nil
	}

	s.mu.Lock()
	s.hashes = hashes
	s.mu.Unlock()
	return nil
}

// Get returns the stored hash for (entityType, naturalKey).
func (s *FileStore) Get(_ context.Context, entityType, naturalKey string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.hashes[entityType][naturalKey]
	return hash, ok, nil
}

// Set stores a hash in memory; Persist writes it out.
func (s *FileStore) Set(_ context.Context, entityType, naturalKey, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hashes[entityType] == nil {
		s.hashes[entityType] = make(map[string]string)
	}
	s.hashes[entityType][naturalKey] = hash
	return nil
}

// Persist writes the whole mapping via a temp-file rename.
func (s *FileStore) Persist(_ context.Context) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.hashes, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
