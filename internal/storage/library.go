package storage

import (
	"sync"

	"github.com/jonesrussell/eventcrawl/internal/domain"
)

// locationsFile is the on-disk shape of the shared location library.
type locationsFile struct {
	Locations []domain.Location `json:"locations"`
}

// organizersFile is the on-disk shape of the shared organizer library.
type organizersFile struct {
	Organizers []domain.Organizer `json:"organizers"`
}

// LocationLibrary persists canonical locations keyed by generated id.
type LocationLibrary struct {
	path string
	mu   sync.Mutex
}

// NewLocationLibrary creates a location library backed by the given file.
func NewLocationLibrary(path string) *LocationLibrary {
	return &LocationLibrary{path: path}
}

// Load returns all locations keyed by id.
func (s *LocationLibrary) Load() (map[string]domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := &locationsFile{}
	if err := readJSON(s.path, file); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Location, len(file.Locations))
	for _, loc := range file.Locations {
		byID[loc.ID] = loc
	}
	return byID, nil
}

// Upsert inserts or replaces locations by id, merging with the on-disk
// state by key union.
func (s *LocationLibrary) Upsert(locations []domain.Location) error {
	if len(locations) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file := &locationsFile{}
	if err := readJSON(s.path, file); err != nil {
		return err
	}

	index := make(map[string]int, len(file.Locations))
	for i, loc := range file.Locations {
		index[loc.ID] = i
	}

	for _, loc := range locations {
		if loc.ID == "" {
			loc.ID = domain.GenerateEntityID("loc", loc.Name)
		}
		if i, ok := index[loc.ID]; ok {
			file.Locations[i] = loc
			continue
		}
		index[loc.ID] = len(file.Locations)
		file.Locations = append(file.Locations, loc)
	}

	return writeJSON(s.path, file)
}

// OrganizerLibrary persists canonical organizers keyed by generated id.
type OrganizerLibrary struct {
	path string
	mu   sync.Mutex
}

// NewOrganizerLibrary creates an organizer library backed by the given file.
func NewOrganizerLibrary(path string) *OrganizerLibrary {
	return &OrganizerLibrary{path: path}
}

// Load returns all organizers keyed by id.
func (s *OrganizerLibrary) Load() (map[string]domain.Organizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := &organizersFile{}
	if err := readJSON(s.path, file); err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Organizer, len(file.Organizers))
	for _, org := range file.Organizers {
		byID[org.ID] = org
	}
	return byID, nil
}

// Upsert inserts or replaces organizers by id, merging with the on-disk
// state by key union.
func (s *OrganizerLibrary) Upsert(organizers []domain.Organizer) error {
	if len(organizers) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file := &organizersFile{}
	if err := readJSON(s.path, file); err != nil {
		return err
	}

	index := make(map[string]int, len(file.Organizers))
	for i, org := range file.Organizers {
		index[org.ID] = i
	}

	for _, org := range organizers {
		if org.ID == "" {
			org.ID = domain.GenerateEntityID("org", org.Name)
		}
		if i, ok := index[org.ID]; ok {
			file.Organizers[i] = org
			continue
		}
		index[org.ID] = len(file.Organizers)
		file.Organizers = append(file.Organizers, org)
	}

	return writeJSON(s.path, file)
}
