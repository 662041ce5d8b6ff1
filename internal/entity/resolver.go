package entity

import (
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/logger"
)

// Resolver resolves entity references against the shared libraries and
// tracks per-entity usage for later library curation.
type Resolver struct {
	locations  map[string]domain.Location
	organizers map[string]domain.Organizer
	logger     logger.Interface

	mu    sync.Mutex
	usage map[string]*UsageStats
}

// UsageStats counts how often an entity was referenced and how often its
// fields were overridden.
type UsageStats struct {
	Uses      int `json:"uses"`
	Overrides int `json:"overrides"`
}

// NewResolver creates a resolver over snapshots of the entity libraries.
func NewResolver(
	locations map[string]domain.Location,
	organizers map[string]domain.Organizer,
	log logger.Interface,
) *Resolver {
	if locations == nil {
		locations = map[string]domain.Location{}
	}
	if organizers == nil {
		organizers = map[string]domain.Organizer{}
	}
	return &Resolver{
		locations:  locations,
		organizers: organizers,
		logger:     log,
		usage:      make(map[string]*UsageStats),
	}
}

// ResolveLocation resolves the location reference on a draft. The result
// is never nil: a dangling or missing reference yields a placeholder.
func (r *Resolver) ResolveLocation(event *domain.DraftEvent) *domain.Location {
	base, inLibrary := r.locations[event.LocationID]
	strategy := pick(event.Location != nil, event.LocationID, event.LocationOverride, inLibrary)

	switch strategy {
	case StrategyFullOverride:
		resolved := event.Location.Clone()
		r.count(event.LocationID, len(event.LocationOverride) > 0)
		return resolved

	case StrategyPartialOverride:
		resolved := base.Clone()
		if err := mergeOverride(resolved, event.LocationOverride); err != nil {
			r.logger.Warn("location override not applied",
				"location_id", event.LocationID,
				"error", err,
			)
		}
		r.count(event.LocationID, true)
		return resolved

	case StrategyReference:
		r.count(event.LocationID, false)
		return base.Clone()

	default:
		if event.LocationID != "" {
			r.logger.Warn("dangling location reference",
				"location_id", event.LocationID,
				"event", event.Title,
			)
		}
		return &domain.Location{Name: domain.UnknownEntityName}
	}
}

// ResolveOrganizer resolves the organizer reference on a draft. The
// result is never nil.
func (r *Resolver) ResolveOrganizer(event *domain.DraftEvent) *domain.Organizer {
	base, inLibrary := r.organizers[event.OrganizerID]
	strategy := pick(event.Organizer != nil, event.OrganizerID, event.OrganizerOverride, inLibrary)

	switch strategy {
	case StrategyFullOverride:
		resolved := event.Organizer.Clone()
		r.count(event.OrganizerID, len(event.OrganizerOverride) > 0)
		return resolved

	case StrategyPartialOverride:
		resolved := base.Clone()
		if err := mergeOverride(resolved, event.OrganizerOverride); err != nil {
			r.logger.Warn("organizer override not applied",
				"organizer_id", event.OrganizerID,
				"error", err,
			)
		}
		r.count(event.OrganizerID, true)
		return resolved

	case StrategyReference:
		r.count(event.OrganizerID, false)
		return base.Clone()

	default:
		if event.OrganizerID != "" {
			r.logger.Warn("dangling organizer reference",
				"organizer_id", event.OrganizerID,
				"event", event.Title,
			)
		}
		return &domain.Organizer{Name: domain.UnknownEntityName}
	}
}

// Usage returns a snapshot of per-entity usage counters.
func (r *Resolver) Usage() map[string]UsageStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]UsageStats, len(r.usage))
	for id, stats := range r.usage {
		out[id] = *stats
	}
	return out
}

// count records one use of an entity id.
func (r *Resolver) count(id string, overridden bool) {
	if id == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.usage[id]
	if !ok {
		stats = &UsageStats{}
		r.usage[id] = stats
	}
	stats.Uses++
	if overridden {
		stats.Overrides++
	}
}

// mergeOverride shallow-merges override fields onto an entity copy. Only
// keys present in the override map are touched; unknown keys are ignored
// rather than failing the draft.
func mergeOverride(target any, override map[string]any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(override)
}
