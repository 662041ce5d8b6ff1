package pipeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/pipeline"
)

func normalizedDraft(title, source string) *domain.DraftEvent {
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	return &domain.DraftEvent{
		Title:       title,
		StartTime:   start,
		Source:      source,
		ContentHash: domain.IdentityHash(title, start, source),
	}
}

func TestDeduper_BatchDuplicates(t *testing.T) {
	t.Parallel()

	d := pipeline.NewDeduper(nil, nil)

	first := normalizedDraft("Jazz Night", "city-feed")
	assert.Equal(t, pipeline.OutcomeNew, d.Check(first))

	// Second occurrence within the same batch is a duplicate.
	second := normalizedDraft("Jazz Night", "city-feed")
	assert.Equal(t, pipeline.OutcomeDuplicate, d.Check(second))

	// Same title from a different source is a different identity.
	other := normalizedDraft("Jazz Night", "community-page")
	assert.Equal(t, pipeline.OutcomeNew, d.Check(other))
}

func TestDeduper_KnownHashes(t *testing.T) {
	t.Parallel()

	published := normalizedDraft("Jazz Night", "city-feed")
	known := map[string]struct{}{published.ContentHash: {}}

	d := pipeline.NewDeduper(known, nil)
	assert.Equal(t, pipeline.OutcomeDuplicate, d.Check(normalizedDraft("Jazz Night", "city-feed")))
	assert.Equal(t, pipeline.OutcomeNew, d.Check(normalizedDraft("Blues Night", "city-feed")))
}

func TestDeduper_RejectionMemoryWins(t *testing.T) {
	t.Parallel()

	rejection := map[string]struct{}{
		domain.RejectionKey("Weekly Flea Market", "community-page"): {},
	}

	d := pipeline.NewDeduper(nil, rejection)

	// Rejection memory matches on (title, source) regardless of date, so
	// next week's recurrence of a rejected event is dropped too.
	draft := normalizedDraft("Weekly Flea Market", "community-page")
	assert.Equal(t, pipeline.OutcomeRejected, d.Check(draft))

	// Case and whitespace do not defeat the memory.
	fuzzy := normalizedDraft("  weekly FLEA market ", "Community-Page")
	assert.Equal(t, pipeline.OutcomeRejected, d.Check(fuzzy))

	// The same title from another source is unaffected.
	elsewhere := normalizedDraft("Weekly Flea Market", "city-feed")
	assert.Equal(t, pipeline.OutcomeNew, d.Check(elsewhere))
}
