package storage

import (
	"sync"

	"github.com/jonesrussell/eventcrawl/internal/domain"
)

// rejectedFile is the on-disk shape of the append-only rejection log.
type rejectedFile struct {
	RejectedEvents []domain.RejectionRecord `json:"rejected_events"`
}

// RejectedStore persists rejection memory. The log is append-only;
// records are never removed or rewritten.
type RejectedStore struct {
	path string
	mu   sync.Mutex
}

// NewRejectedStore creates a rejection store backed by the given file.
func NewRejectedStore(path string) *RejectedStore {
	return &RejectedStore{path: path}
}

// Load returns every rejection record.
func (s *RejectedStore) Load() ([]domain.RejectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return nil, err
	}
	return file.RejectedEvents, nil
}

// Keys returns the normalized (title, source) keys of all records, for
// rejection-memory matching. Matching is case and whitespace insensitive.
func (s *RejectedStore) Keys() (map[string]struct{}, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(records))
	for _, record := range records {
		keys[domain.RejectionKey(record.Title, record.Source)] = struct{}{}
	}
	return keys, nil
}

// Append adds one record to the log, merging with the on-disk state so
// records appended by another process survive.
func (s *RejectedStore) Append(record domain.RejectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}

	file.RejectedEvents = append(file.RejectedEvents, record)
	return writeJSON(s.path, file)
}

func (s *RejectedStore) read() (*rejectedFile, error) {
	file := &rejectedFile{}
	if err := readJSON(s.path, file); err != nil {
		return nil, err
	}
	return file, nil
}
