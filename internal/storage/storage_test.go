package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/storage"
)

func pendingItem(id, title string) domain.PendingItem {
	return domain.PendingItem{
		ID: id,
		Event: domain.DraftEvent{
			ID:          "evt_" + id,
			Title:       title,
			StartTime:   time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC),
			Source:      "city-feed",
			ContentHash: "hash-" + id,
		},
		Status:     domain.StatusPending,
		EnqueuedAt: time.Now().UTC(),
	}
}

func TestPendingStore(t *testing.T) {
	t.Parallel()

	store := storage.NewPendingStore(filepath.Join(t.TempDir(), "pending.json"))

	// A missing file reads as an empty queue.
	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Append([]domain.PendingItem{
		pendingItem("a", "Jazz Night"),
		pendingItem("b", "Flea Market"),
	}))

	items, err = store.Load()
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Appending an item with a known id is a no-op.
	require.NoError(t, store.Append([]domain.PendingItem{pendingItem("a", "Jazz Night")}))
	items, err = store.Load()
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// Get finds by id.
	item, found, err := store.Get("b")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Flea Market", item.Event.Title)

	_, found, err = store.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	// Update replaces in place.
	item.NeedsAttention = true
	require.NoError(t, store.Update(item))
	item, _, err = store.Get("b")
	require.NoError(t, err)
	assert.True(t, item.NeedsAttention)

	// Remove deletes by id.
	require.NoError(t, store.Remove("a"))
	items, err = store.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestPendingStoreUpdate_Missing(t *testing.T) {
	t.Parallel()

	store := storage.NewPendingStore(filepath.Join(t.TempDir(), "pending.json"))
	err := store.Update(pendingItem("ghost", "Ghost Event"))
	assert.Error(t, err)
}

func TestPublishedStore(t *testing.T) {
	t.Parallel()

	store := storage.NewPublishedStore(filepath.Join(t.TempDir(), "events.json"))

	events, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, events)

	draft := domain.DraftEvent{
		ID:          "evt_1",
		Title:       "Jazz Night",
		StartTime:   time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC),
		Source:      "city-feed",
		ContentHash: "hash-1",
	}
	require.NoError(t, store.Append([]domain.DraftEvent{draft}))

	hashes, err := store.Hashes()
	require.NoError(t, err)
	_, ok := hashes["hash-1"]
	assert.True(t, ok)

	// Re-appending the same id does not duplicate.
	require.NoError(t, store.Append([]domain.DraftEvent{draft}))
	events, err = store.Load()
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestPublishedStore_PendingCountIsMetadata(t *testing.T) {
	t.Parallel()

	store := storage.NewPublishedStore(filepath.Join(t.TempDir(), "events.json"))

	require.NoError(t, store.Append([]domain.DraftEvent{{ID: "evt_1", Title: "Jazz Night"}}))

	before, err := store.LastUpdated()
	require.NoError(t, err)

	// Updating the counter must not advance the content timestamp.
	require.NoError(t, store.SetPendingCount(7))

	count, err := store.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	after, err := store.LastUpdated()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRejectedStore(t *testing.T) {
	t.Parallel()

	store := storage.NewRejectedStore(filepath.Join(t.TempDir(), "rejected.json"))

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, store.Append(domain.RejectionRecord{
		Title:      "Weekly Flea Market",
		Source:     "community-page",
		RejectedAt: time.Now().UTC(),
		Reason:     "recurring spam",
	}))

	keys, err = store.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 1)

	// Keys are insensitive to case and whitespace.
	_, ok := keys[domain.RejectionKey("  weekly FLEA market ", "Community-Page")]
	assert.True(t, ok)

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "recurring spam", records[0].Reason)
}

func TestLocationLibrary(t *testing.T) {
	t.Parallel()

	lib := storage.NewLocationLibrary(filepath.Join(t.TempDir(), "locations.json"))

	byID, err := lib.Load()
	require.NoError(t, err)
	assert.Empty(t, byID)

	// Upsert without an id generates a stable one from the name.
	require.NoError(t, lib.Upsert([]domain.Location{{Name: "Stadthalle", City: "Hagen"}}))

	byID, err = lib.Load()
	require.NoError(t, err)
	require.Len(t, byID, 1)

	id := domain.GenerateEntityID("loc", "Stadthalle")
	loc, ok := byID[id]
	require.True(t, ok)
	assert.Equal(t, "Hagen", loc.City)

	// Upserting the same id replaces, not duplicates.
	loc.Verified = true
	require.NoError(t, lib.Upsert([]domain.Location{loc}))

	byID, err = lib.Load()
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.True(t, byID[id].Verified)
}

func TestOrganizerLibrary(t *testing.T) {
	t.Parallel()

	lib := storage.NewOrganizerLibrary(filepath.Join(t.TempDir(), "organizers.json"))

	require.NoError(t, lib.Upsert([]domain.Organizer{
		{Name: "Kulturverein", Email: "info@example.com"},
	}))

	byID, err := lib.Load()
	require.NoError(t, err)
	require.Len(t, byID, 1)

	id := domain.GenerateEntityID("org", "Kulturverein")
	org, ok := byID[id]
	require.True(t, ok)
	assert.Equal(t, "info@example.com", org.Email)
}
