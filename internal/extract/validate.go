package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/jonesrussell/eventcrawl/internal/domain"
)

// Coordinate bounds for validation.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// MergeResult reports what validation did with the provider output.
type MergeResult struct {
	// FilledFields lists draft fields filled from the extraction.
	FilledFields []string
	// DroppedFields lists extraction fields rejected by validation.
	DroppedFields []string
}

// ValidateAndMerge checks every provider field and merges the survivors
// into the draft. Provider output is never trusted blindly: an unknown
// category falls back to the default, malformed coordinates and
// unparseable timestamps are dropped, and existing draft fields are never
// overwritten.
func ValidateAndMerge(draft *domain.DraftEvent, extraction *Extraction, tz *time.Location) MergeResult {
	if tz == nil {
		tz = time.UTC
	}
	result := MergeResult{}

	if draft.Title == "" && strings.TrimSpace(extraction.Title) != "" {
		draft.Title = strings.TrimSpace(extraction.Title)
		result.fill("title")
	}

	if draft.Description == "" && strings.TrimSpace(extraction.Description) != "" {
		draft.Description = strings.TrimSpace(extraction.Description)
		result.fill("description")
	}

	if !draft.HasStartTime() && extraction.StartTime != "" {
		if start, ok := parseTimestamp(extraction.StartTime, tz); ok {
			draft.StartTime = start
			result.fill("start_time")
		} else {
			result.drop("start_time")
		}
	}

	if draft.EndTime == nil && extraction.EndTime != "" {
		if end, ok := parseTimestamp(extraction.EndTime, tz); ok {
			draft.EndTime = &end
			result.fill("end_time")
		} else {
			result.drop("end_time")
		}
	}

	mergeLocation(draft, extraction, &result)

	if extraction.Category != "" {
		normalized := domain.NormalizeCategory(extraction.Category)
		if draft.Category == "" {
			draft.Category = normalized
			result.fill("category")
		}
	}

	if draft.Price == "" && strings.TrimSpace(extraction.Price) != "" {
		draft.Price = strings.TrimSpace(extraction.Price)
		result.fill("price")
	}

	if draft.URL == "" && extraction.URL != "" {
		if validURL(extraction.URL) {
			draft.URL = extraction.URL
			result.fill("url")
		} else {
			result.drop("url")
		}
	}

	return result
}

// mergeLocation embeds a location from the extraction when the draft has
// none. Coordinates outside the valid ranges are dropped while the name
// is kept.
func mergeLocation(draft *domain.DraftEvent, extraction *Extraction, result *MergeResult) {
	if draft.Location != nil || draft.LocationID != "" {
		return
	}

	name := strings.TrimSpace(extraction.LocationName)
	if name == "" {
		return
	}

	loc := &domain.Location{Name: name}
	if extraction.Lat != 0 || extraction.Lon != 0 {
		if validCoordinates(extraction.Lat, extraction.Lon) {
			loc.Lat = extraction.Lat
			loc.Lon = extraction.Lon
		} else {
			result.drop("coordinates")
		}
	}

	draft.Location = loc
	result.fill("location")
}

// timestampLayouts are accepted provider timestamp formats.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp parses a provider timestamp, interpreting zone-less
// layouts in the pipeline timezone.
func parseTimestamp(value string, tz *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, tz); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// validCoordinates checks latitude and longitude ranges.
func validCoordinates(lat, lon float64) bool {
	return lat >= minLatitude && lat <= maxLatitude &&
		lon >= minLongitude && lon <= maxLongitude
}

// validURL accepts only absolute HTTP(S) URLs.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func (r *MergeResult) fill(field string) {
	r.FilledFields = append(r.FilledFields, field)
}

func (r *MergeResult) drop(field string) {
	r.DroppedFields = append(r.DroppedFields, field)
}
