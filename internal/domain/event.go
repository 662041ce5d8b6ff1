// Package domain provides domain models used across the application.
package domain

import (
	"strings"
	"time"
)

// DraftEvent represents an unresolved candidate event produced by a scraper.
// A draft may be enriched by the extraction fallback before it is normalized,
// deduplicated and resolved into a PendingItem.
type DraftEvent struct {
	// Unique identifier, deterministic over (source, title, normalized date)
	ID string `json:"id"`
	// Title of the event
	Title string `json:"title"`
	// Longer free-text description
	Description string `json:"description,omitempty"`
	// Start time of the event
	StartTime time.Time `json:"start_time"`
	// End time, nil when the source does not provide one
	EndTime *time.Time `json:"end_time,omitempty"`
	// Embedded location (full override, wins over LocationID)
	Location *Location `json:"location,omitempty"`
	// Reference into the shared location library
	LocationID string `json:"location_id,omitempty"`
	// Field-level overrides applied on top of the referenced location
	LocationOverride map[string]any `json:"location_override,omitempty"`
	// Embedded organizer (full override, wins over OrganizerID)
	Organizer *Organizer `json:"organizer,omitempty"`
	// Reference into the shared organizer library
	OrganizerID string `json:"organizer_id,omitempty"`
	// Field-level overrides applied on top of the referenced organizer
	OrganizerOverride map[string]any `json:"organizer_override,omitempty"`
	// Category of the event
	Category string `json:"category,omitempty"`
	// URL the event was discovered at
	URL string `json:"url,omitempty"`
	// Price or admission text as found at the source
	Price string `json:"price,omitempty"`
	// Image URL if the source carries one
	ImageURL string `json:"image_url,omitempty"`
	// Name of the source that produced this draft
	Source string `json:"source"`
	// Scraper-independent identity hash, set by the normalizer
	ContentHash string `json:"content_hash,omitempty"`
	// NeedsAttention marks drafts the extraction fallback could not complete
	NeedsAttention bool `json:"needs_attention,omitempty"`
	// Record creation timestamp
	ScrapedAt time.Time `json:"scraped_at"`
}

// HasStartTime reports whether the draft carries a usable start time.
func (e *DraftEvent) HasStartTime() bool {
	return !e.StartTime.IsZero()
}

// IsComplete reports whether the draft has every field required for
// enqueueing without help from the extraction fallback.
func (e *DraftEvent) IsComplete() bool {
	return e.Title != "" && e.HasStartTime()
}

// Categories recognized by the pipeline. Provider output and scraped
// values outside this set are replaced with DefaultCategory.
const (
	CategoryMusic     = "music"
	CategoryTheatre   = "theatre"
	CategoryMarket    = "market"
	CategoryFestival  = "festival"
	CategorySport     = "sport"
	CategoryExhibit   = "exhibition"
	CategoryWorkshop  = "workshop"
	CategoryCommunity = "community"

	// DefaultCategory is assigned when a category is missing or unknown.
	DefaultCategory = "other"
)

// KnownCategories lists every category the pipeline accepts verbatim.
var KnownCategories = []string{
	CategoryMusic,
	CategoryTheatre,
	CategoryMarket,
	CategoryFestival,
	CategorySport,
	CategoryExhibit,
	CategoryWorkshop,
	CategoryCommunity,
	DefaultCategory,
}

// NormalizeCategory maps a raw category value onto the known set,
// falling back to DefaultCategory for unknown values.
func NormalizeCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultCategory
	}
	for _, known := range KnownCategories {
		if strings.EqualFold(trimmed, known) {
			return known
		}
	}
	return DefaultCategory
}
