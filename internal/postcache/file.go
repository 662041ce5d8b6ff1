package postcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultMaxKeys bounds the retention window of a file-backed cache.
// Oldest keys are dropped first; a dropped key simply means the post may
// be re-examined once.
const DefaultMaxKeys = 5000

// cacheFile is the on-disk shape of a per-source post cache.
type cacheFile struct {
	ProcessedKeys []string `json:"processed_keys"`
}

// FileStore is a file-backed Store. One file per source; appends are
// serialized behind a mutex so concurrent markers cannot clobber each
// other within a process.
type FileStore struct {
	path    string
	maxKeys int

	mu     sync.Mutex
	keys   []string
	index  map[string]struct{}
	loaded bool
}

// NewFileStore creates a file-backed cache at path. maxKeys <= 0 selects
// DefaultMaxKeys.
func NewFileStore(path string, maxKeys int) *FileStore {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	return &FileStore{
		path:    path,
		maxKeys: maxKeys,
		index:   make(map[string]struct{}),
	}
}

// Seen reports whether the key was already processed.
func (s *FileStore) Seen(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return false, err
	}

	_, ok := s.index[key]
	return ok, nil
}

// Mark records the key and persists the cache, merging by key union with
// the on-disk state.
func (s *FileStore) Mark(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	if _, ok := s.index[key]; ok {
		return nil
	}

	s.keys = append(s.keys, key)
	s.index[key] = struct{}{}
	s.trim()
	return s.flush()
}

// Compact enforces the retention bound and rewrites the file.
func (s *FileStore) Compact(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	s.trim()
	return s.flush()
}

// load reads the cache file once and unions it with in-memory keys.
func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read post cache %s: %w", s.path, err)
	}

	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decode post cache %s: %w", s.path, err)
	}

	for _, key := range file.ProcessedKeys {
		if _, ok := s.index[key]; ok {
			continue
		}
		s.keys = append(s.keys, key)
		s.index[key] = struct{}{}
	}
	s.loaded = true
	return nil
}

// trim drops the oldest keys beyond the retention bound.
func (s *FileStore) trim() {
	if len(s.keys) <= s.maxKeys {
		return
	}
	dropped := s.keys[:len(s.keys)-s.maxKeys]
	for _, key := range dropped {
		delete(s.index, key)
	}
	s.keys = append([]string(nil), s.keys[len(s.keys)-s.maxKeys:]...)
}

// flush writes the cache atomically via temp file and rename.
func (s *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create post cache dir: %w", err)
	}

	data, err := json.MarshalIndent(cacheFile{ProcessedKeys: s.keys}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode post cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create post cache temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write post cache temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close post cache temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename post cache temp: %w", err)
	}
	return nil
}
