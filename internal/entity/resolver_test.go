package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/entity"
	"github.com/jonesrussell/eventcrawl/internal/logger"
)

func testLibraries() (map[string]domain.Location, map[string]domain.Organizer) {
	locations := map[string]domain.Location{
		"loc_stadthalle": {
			ID:      "loc_stadthalle",
			Name:    "Stadthalle",
			Address: "Wasserloses Tal 2",
			City:    "Hagen",
			Lat:     51.35,
			Lon:     7.48,
		},
	}
	organizers := map[string]domain.Organizer{
		"org_kulturverein": {
			ID:    "org_kulturverein",
			Name:  "Kulturverein",
			Email: "info@example.com",
		},
	}
	return locations, organizers
}

func newResolver() *entity.Resolver {
	locations, organizers := testLibraries()
	return entity.NewResolver(locations, organizers, logger.NewNoOp())
}

func TestResolveLocation_Reference(t *testing.T) {
	t.Parallel()

	r := newResolver()
	draft := &domain.DraftEvent{LocationID: "loc_stadthalle"}

	resolved := r.ResolveLocation(draft)
	require.NotNil(t, resolved)
	assert.Equal(t, "Stadthalle", resolved.Name)
	assert.Equal(t, "Hagen", resolved.City)

	// The resolved entity is a copy; mutating it must not leak into the
	// library snapshot.
	resolved.Name = "mutated"
	again := r.ResolveLocation(draft)
	assert.Equal(t, "Stadthalle", again.Name)
}

func TestResolveLocation_PartialOverride(t *testing.T) {
	t.Parallel()

	r := newResolver()
	draft := &domain.DraftEvent{
		LocationID: "loc_stadthalle",
		LocationOverride: map[string]any{
			"name": "Stadthalle (Großer Saal)",
		},
	}

	resolved := r.ResolveLocation(draft)
	require.NotNil(t, resolved)

	// Overridden field applies; the rest come from the library entry.
	assert.Equal(t, "Stadthalle (Großer Saal)", resolved.Name)
	assert.Equal(t, "Wasserloses Tal 2", resolved.Address)
	assert.Equal(t, "Hagen", resolved.City)
	assert.InDelta(t, 51.35, resolved.Lat, 0.001)
}

func TestResolveLocation_FullOverrideWinsOverReference(t *testing.T) {
	t.Parallel()

	r := newResolver()
	draft := &domain.DraftEvent{
		Location:   &domain.Location{Name: "Pop-up Stage"},
		LocationID: "loc_stadthalle",
	}

	resolved := r.ResolveLocation(draft)
	require.NotNil(t, resolved)
	assert.Equal(t, "Pop-up Stage", resolved.Name)
	assert.Empty(t, resolved.City)
}

func TestResolveLocation_DanglingReferenceYieldsPlaceholder(t *testing.T) {
	t.Parallel()

	r := newResolver()
	draft := &domain.DraftEvent{LocationID: "loc_deleted"}

	resolved := r.ResolveLocation(draft)
	require.NotNil(t, resolved)
	assert.Equal(t, domain.UnknownEntityName, resolved.Name)
}

func TestResolveLocation_NoReferenceYieldsPlaceholder(t *testing.T) {
	t.Parallel()

	r := newResolver()
	resolved := r.ResolveLocation(&domain.DraftEvent{})
	require.NotNil(t, resolved)
	assert.Equal(t, domain.UnknownEntityName, resolved.Name)
}

func TestResolveOrganizer(t *testing.T) {
	t.Parallel()

	r := newResolver()

	resolved := r.ResolveOrganizer(&domain.DraftEvent{OrganizerID: "org_kulturverein"})
	require.NotNil(t, resolved)
	assert.Equal(t, "Kulturverein", resolved.Name)

	overridden := r.ResolveOrganizer(&domain.DraftEvent{
		OrganizerID:       "org_kulturverein",
		OrganizerOverride: map[string]any{"email": "tickets@example.com"},
	})
	require.NotNil(t, overridden)
	assert.Equal(t, "Kulturverein", overridden.Name)
	assert.Equal(t, "tickets@example.com", overridden.Email)

	placeholder := r.ResolveOrganizer(&domain.DraftEvent{})
	require.NotNil(t, placeholder)
	assert.Equal(t, domain.UnknownEntityName, placeholder.Name)
}

func TestResolverUsage(t *testing.T) {
	t.Parallel()

	r := newResolver()

	r.ResolveLocation(&domain.DraftEvent{LocationID: "loc_stadthalle"})
	r.ResolveLocation(&domain.DraftEvent{
		LocationID:       "loc_stadthalle",
		LocationOverride: map[string]any{"name": "Saal 2"},
	})
	r.ResolveLocation(&domain.DraftEvent{})

	usage := r.Usage()
	stats, ok := usage["loc_stadthalle"]
	require.True(t, ok)
	assert.Equal(t, 2, stats.Uses)
	assert.Equal(t, 1, stats.Overrides)

	// Placeholder resolutions are not counted against any id.
	assert.Len(t, usage, 1)
}
