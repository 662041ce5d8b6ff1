package scraper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

// apiEnvelope is the accepted response shape of API sources: either a
// bare array of events or an object with an "events" key.
type apiEnvelope struct {
	Events []apiEvent `json:"events"`
}

// apiEvent is one event record as delivered by an API source.
type apiEvent struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Start             string           `json:"start_time"`
	End               string           `json:"end_time"`
	Location          *domain.Location `json:"location"`
	LocationID        string           `json:"location_id"`
	LocationOverride  map[string]any   `json:"location_override"`
	Organizer         *domain.Organizer `json:"organizer"`
	OrganizerID       string           `json:"organizer_id"`
	OrganizerOverride map[string]any   `json:"organizer_override"`
	Category          string           `json:"category"`
	URL               string           `json:"url"`
	Price             string           `json:"price"`
	ImageURL          string           `json:"image_url"`
}

// apiTimeLayouts are the accepted timestamp formats for API sources.
var apiTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// APIScraper reads structured event APIs. These sources deliver complete
// records, so the extraction fallback is rarely needed; records that
// still lack a start time are flagged rather than enriched.
type APIScraper struct {
	deps Deps
}

// NewAPIScraper creates an API scraper.
func NewAPIScraper(deps Deps) *APIScraper {
	return &APIScraper{deps: deps}
}

// Scrape fetches and decodes the configured endpoint.
func (s *APIScraper) Scrape(ctx context.Context, cfg sources.Config) ([]domain.DraftEvent, []domain.Diagnostic) {
	client := NewFetchClient(cfg.Options.Timeout, cfg.Options.RateLimit)

	body, err := client.Get(ctx, cfg.URL)
	if err != nil {
		return nil, []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticSourceUnavailable, cfg.Name, err.Error(),
		)}
	}

	events, err := decodeAPIBody(body)
	if err != nil {
		return nil, []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticParseError, cfg.Name, err.Error(),
		)}
	}

	var diags []domain.Diagnostic
	drafts := make([]domain.DraftEvent, 0, len(events))

	for _, record := range events {
		if record.Title == "" {
			continue
		}

		draft := domain.DraftEvent{
			Title:             record.Title,
			Description:       record.Description,
			Location:          record.Location,
			LocationID:        record.LocationID,
			LocationOverride:  record.LocationOverride,
			Organizer:         record.Organizer,
			OrganizerID:       record.OrganizerID,
			OrganizerOverride: record.OrganizerOverride,
			Category:          record.Category,
			URL:               record.URL,
			Price:             record.Price,
			ImageURL:          record.ImageURL,
			ScrapedAt:         time.Now().UTC(),
		}

		if start, ok := parseAPITime(record.Start); ok {
			draft.StartTime = start
		}
		if end, ok := parseAPITime(record.End); ok {
			draft.EndTime = &end
		}

		if !draft.IsComplete() {
			draft.NeedsAttention = true
			diags = append(diags, domain.NewDiagnostic(
				domain.DiagnosticValidationFailed, cfg.Name,
				"api record without start time: "+record.Title,
			))
		}

		finalizeDraft(&draft, cfg)
		drafts = append(drafts, draft)
	}

	return drafts, diags
}

// decodeAPIBody accepts both envelope and bare-array responses.
func decodeAPIBody(body []byte) ([]apiEvent, error) {
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Events != nil {
		return envelope.Events, nil
	}

	var bare []apiEvent
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

// parseAPITime tries the accepted layouts, interpreting zone-less values
// as UTC. The normalizer canonicalizes the timezone later.
func parseAPITime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range apiTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
