package extract

import (
	"context"
)

// Extraction is the partial field set a provider may return. Every field
// is optional; validation decides what is merged into the draft.
type Extraction struct {
	Title        string  `json:"title,omitempty"`
	Description  string  `json:"description,omitempty"`
	StartTime    string  `json:"start_time,omitempty"`
	EndTime      string  `json:"end_time,omitempty"`
	LocationName string  `json:"location_name,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lon          float64 `json:"lon,omitempty"`
	Category     string  `json:"category,omitempty"`
	Price        string  `json:"price,omitempty"`
	URL          string  `json:"url,omitempty"`
}

// Provider turns an aggregated signal context into partial event fields.
// Implementations must be safe for concurrent use; pacing is enforced by
// the caller through the shared RateLimiter.
type Provider interface {
	// Name identifies the provider in logs and source options.
	Name() string
	// Available reports whether the provider can currently be called.
	Available() bool
	// ExtractEventInfo sends the context and returns partial fields.
	ExtractEventInfo(ctx context.Context, text string) (*Extraction, error)
}
