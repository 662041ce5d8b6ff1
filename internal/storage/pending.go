package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/eventcrawl/internal/domain"
)

// pendingFile is the on-disk shape of the pending queue.
type pendingFile struct {
	Items       []domain.PendingItem `json:"items"`
	LastUpdated time.Time            `json:"last_updated"`
}

// PendingStore persists the editorial queue. Writes are single-writer:
// the store serializes all mutations behind one mutex and merges with the
// on-disk state by item id before writing.
type PendingStore struct {
	path string
	mu   sync.Mutex
}

// NewPendingStore creates a pending store backed by the given file.
func NewPendingStore(path string) *PendingStore {
	return &PendingStore{path: path}
}

// Load returns all pending items currently on disk.
func (s *PendingStore) Load() ([]domain.PendingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}

// Append adds new items to the queue, merging by id with the on-disk
// state so items written by another process are preserved.
func (s *PendingStore) Append(items []domain.PendingItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	existing := make(map[string]struct{}, len(file.Items))
	for _, item := range file.Items {
		existing[item.ID] = struct{}{}
	}

	for _, item := range items {
		if _, ok := existing[item.ID]; ok {
			continue
		}
		file.Items = append(file.Items, item)
		existing[item.ID] = struct{}{}
	}

	file.LastUpdated = time.Now().UTC()
	return writeJSON(s.path, file)
}

// Update replaces the stored item with the same id. It returns an error
// when the item is not in the queue.
func (s *PendingStore) Update(item domain.PendingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	for i := range file.Items {
		if file.Items[i].ID == item.ID {
			file.Items[i] = item
			file.LastUpdated = time.Now().UTC()
			return writeJSON(s.path, file)
		}
	}
	return fmt.Errorf("pending item %s not found", item.ID)
}

// Remove deletes the item with the given id, if present.
func (s *PendingStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	kept := file.Items[:0]
	for _, item := range file.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	file.Items = kept
	file.LastUpdated = time.Now().UTC()
	return writeJSON(s.path, file)
}

// Get returns the item with the given id.
func (s *PendingStore) Get(id string) (domain.PendingItem, bool, error) {
	items, err := s.Load()
	if err != nil {
		return domain.PendingItem{}, false, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, true, nil
		}
	}
	return domain.PendingItem{}, false, nil
}

func (s *PendingStore) read() (*pendingFile, error) {
	file := &pendingFile{}
	if err := readJSON(s.path, file); err != nil {
		return nil, err
	}
	return file, nil
}
