package storage

import (
	"sync"
	"time"

	"github.com/jonesrussell/eventcrawl/internal/domain"
)

// publishedFile is the on-disk shape of the published events document
// consumed by the renderer. PendingCount is metadata only: updating it
// does not touch LastUpdated, so consumers can tell content changes from
// counter changes.
type publishedFile struct {
	Events       []domain.DraftEvent `json:"events"`
	PendingCount int                 `json:"pending_count"`
	LastUpdated  time.Time           `json:"last_updated"`
}

// PublishedStore persists approved events.
type PublishedStore struct {
	path string
	mu   sync.Mutex
}

// NewPublishedStore creates a published store backed by the given file.
func NewPublishedStore(path string) *PublishedStore {
	return &PublishedStore{path: path}
}

// Load returns all published events.
func (s *PublishedStore) Load() ([]domain.DraftEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return nil, err
	}
	return file.Events, nil
}

// Hashes returns the identity hashes of every published event, for
// deduplication against the published set.
func (s *PublishedStore) Hashes() (map[string]struct{}, error) {
	events, err := s.Load()
	if err != nil {
		return nil, err
	}

	hashes := make(map[string]struct{}, len(events))
	for _, event := range events {
		if event.ContentHash != "" {
			hashes[event.ContentHash] = struct{}{}
		}
	}
	return hashes, nil
}

// Append adds events to the published set, merging by id with the
// on-disk state. LastUpdated advances because content changed.
func (s *PublishedStore) Append(events []domain.DraftEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	existing := make(map[string]struct{}, len(file.Events))
	for _, event := range file.Events {
		existing[event.ID] = struct{}{}
	}

	for _, event := range events {
		if _, ok := existing[event.ID]; ok {
			continue
		}
		file.Events = append(file.Events, event)
		existing[event.ID] = struct{}{}
	}

	file.LastUpdated = time.Now().UTC()
	return writeJSON(s.path, file)
}

// SetPendingCount updates the pending counter without advancing
// LastUpdated. The counter is metadata, not content.
func (s *PublishedStore) SetPendingCount(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	file.PendingCount = count
	return writeJSON(s.path, file)
}

// LastUpdated returns the content timestamp of the published document.
func (s *PublishedStore) LastUpdated() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return time.Time{}, err
	}
	return file.LastUpdated, nil
}

// PendingCount returns the stored pending counter.
func (s *PublishedStore) PendingCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return 0, err
	}
	return file.PendingCount, nil
}

func (s *PublishedStore) read() (*publishedFile, error) {
	file := &publishedFile{}
	if err := readJSON(s.path, file); err != nil {
		return nil, err
	}
	return file, nil
}
