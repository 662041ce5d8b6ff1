package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// entityIDLength is the number of hex characters kept from the name digest
// when generating a stable entity id.
const entityIDLength = 12

// Location represents a canonical place in the shared location library.
// Many events reference one location by id.
type Location struct {
	// Stable generated identifier (see GenerateEntityID)
	ID string `json:"id,omitempty"`
	// Display name of the location
	Name string `json:"name"`
	// Street address
	Address string `json:"address,omitempty"`
	// City name
	City string `json:"city,omitempty"`
	// Latitude in decimal degrees
	Lat float64 `json:"lat,omitempty"`
	// Longitude in decimal degrees
	Lon float64 `json:"lon,omitempty"`
	// Website of the location
	Website string `json:"website,omitempty"`
	// Verified marks entries confirmed by a curator
	Verified bool `json:"verified,omitempty"`
}

// Clone returns a deep copy of the location.
func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

// Organizer represents a canonical event organizer in the shared
// organizer library.
type Organizer struct {
	// Stable generated identifier (see GenerateEntityID)
	ID string `json:"id,omitempty"`
	// Display name of the organizer
	Name string `json:"name"`
	// Contact email address
	Email string `json:"email,omitempty"`
	// Contact phone number
	Phone string `json:"phone,omitempty"`
	// Website of the organizer
	Website string `json:"website,omitempty"`
	// Verified marks entries confirmed by a curator
	Verified bool `json:"verified,omitempty"`
}

// Clone returns a deep copy of the organizer.
func (o *Organizer) Clone() *Organizer {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}

// UnknownEntityName is the placeholder name used when a reference cannot
// be resolved. Resolution never yields nil.
const UnknownEntityName = "unknown"

// GenerateEntityID derives a stable library id from an entity kind and
// name. Equal names always map to the same id so re-imports do not mint
// duplicate entries.
func GenerateEntityID(kind, name string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))
	sum := sha256.Sum256([]byte(kind + ":" + normalized))
	return kind + "_" + hex.EncodeToString(sum[:])[:entityIDLength]
}
