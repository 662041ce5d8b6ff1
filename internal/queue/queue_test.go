package queue_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/logger"
	"github.com/jonesrussell/eventcrawl/internal/queue"
	"github.com/jonesrussell/eventcrawl/internal/storage"
)

type fixture struct {
	manager   *queue.Manager
	pending   *storage.PendingStore
	published *storage.PublishedStore
	rejected  *storage.RejectedStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	pending := storage.NewPendingStore(filepath.Join(dir, "pending_events.json"))
	published := storage.NewPublishedStore(filepath.Join(dir, "events.json"))
	rejected := storage.NewRejectedStore(filepath.Join(dir, "rejected_events.json"))

	return &fixture{
		manager:   queue.NewManager(pending, published, rejected, logger.NewNoOp()),
		pending:   pending,
		published: published,
		rejected:  rejected,
	}
}

func draft(title string) domain.DraftEvent {
	return domain.DraftEvent{
		ID:          "evt_" + title,
		Title:       title,
		StartTime:   time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC),
		Source:      "city-feed",
		ContentHash: "hash-" + title,
	}
}

func TestEnqueue(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	items, err := f.manager.Enqueue([]domain.DraftEvent{draft("Jazz Night"), draft("Flohmarkt")})
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, domain.StatusPending, item.Status)
		assert.False(t, item.EnqueuedAt.IsZero())
	}

	listed, err := f.manager.List()
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	// The pending counter is mirrored into the published document.
	count, err := f.published.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPublish(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	items, err := f.manager.Enqueue([]domain.DraftEvent{draft("Jazz Night")})
	require.NoError(t, err)

	require.NoError(t, f.manager.Publish(items[0].ID))

	// The event moved to the published set and left the queue.
	events, err := f.published.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Jazz Night", events[0].Title)

	listed, err := f.manager.List()
	require.NoError(t, err)
	assert.Empty(t, listed)

	count, err := f.published.PendingCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	// No rejection record was written.
	records, err := f.rejected.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReject(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	items, err := f.manager.Enqueue([]domain.DraftEvent{draft("Weekly Flea Market")})
	require.NoError(t, err)

	require.NoError(t, f.manager.Reject(items[0].ID, "spam"))

	// Exactly one rejection record is written and the item leaves the
	// queue; nothing reaches the published set.
	records, err := f.rejected.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Weekly Flea Market", records[0].Title)
	assert.Equal(t, "city-feed", records[0].Source)
	assert.Equal(t, "spam", records[0].Reason)

	listed, err := f.manager.List()
	require.NoError(t, err)
	assert.Empty(t, listed)

	events, err := f.published.Load()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTransitions_UnknownID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.manager.Publish("no-such-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrNotFound))

	err = f.manager.Reject("no-such-id", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrNotFound))
}

func TestTransitions_TerminalIsFinal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	items, err := f.manager.Enqueue([]domain.DraftEvent{draft("Jazz Night")})
	require.NoError(t, err)
	id := items[0].ID

	require.NoError(t, f.manager.Publish(id))

	// A published item left the queue; a second decision cannot find it.
	err = f.manager.Reject(id, "changed my mind")
	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrNotFound))

	// Still exactly one published event and zero rejection records.
	events, loadErr := f.published.Load()
	require.NoError(t, loadErr)
	assert.Len(t, events, 1)

	records, loadErr := f.rejected.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, records)
}

func TestAutoPublish(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	require.NoError(t, f.manager.AutoPublish([]domain.DraftEvent{draft("Trusted Event")}))

	// Trusted drafts bypass the pending stop entirely.
	listed, err := f.manager.List()
	require.NoError(t, err)
	assert.Empty(t, listed)

	events, err := f.published.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Trusted Event", events[0].Title)
}

func TestEnqueue_Empty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	items, err := f.manager.Enqueue(nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStats(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	flagged := draft("Unclear Poster")
	flagged.NeedsAttention = true

	items, err := f.manager.Enqueue([]domain.DraftEvent{
		draft("Jazz Night"), draft("Flohmarkt"), flagged,
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.NoError(t, f.manager.Publish(items[0].ID))
	require.NoError(t, f.manager.Reject(items[1].ID, "duplicate venue"))

	stats, err := f.manager.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.NeedsAttention)
	assert.Equal(t, 1, stats.Published)
	assert.Equal(t, 1, stats.Rejected)
}
