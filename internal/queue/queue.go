// Package queue implements the editorial queue: a state machine holding
// resolved drafts as pending until an editor (or the auto-publish policy)
// transitions them. pending -> published and pending -> rejected are the
// only transitions; both are terminal.
package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/logger"
	"github.com/jonesrussell/eventcrawl/internal/storage"
)

var (
	// ErrNotFound is returned when no pending item has the given id.
	ErrNotFound = errors.New("pending item not found")
	// ErrTerminalState is returned when a transition is attempted on an
	// item that already reached a terminal state.
	ErrTerminalState = errors.New("item is in a terminal state")
)

// Manager owns all queue transitions. Transitions are atomic per item:
// one mutex serializes decisions, and each decision removes the item from
// the pending file and appends to exactly one of the terminal files.
type Manager struct {
	pending   *storage.PendingStore
	published *storage.PublishedStore
	rejected  *storage.RejectedStore
	logger    logger.Interface

	mu sync.Mutex
}

// NewManager creates a queue manager over the three stores.
func NewManager(
	pending *storage.PendingStore,
	published *storage.PublishedStore,
	rejected *storage.RejectedStore,
	log logger.Interface,
) *Manager {
	return &Manager{
		pending:   pending,
		published: published,
		rejected:  rejected,
		logger:    log,
	}
}

// Enqueue creates pending items for resolved drafts and appends them to
// the queue.
func (m *Manager) Enqueue(drafts []domain.DraftEvent) ([]domain.PendingItem, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	items := make([]domain.PendingItem, 0, len(drafts))
	for _, draft := range drafts {
		items = append(items, domain.PendingItem{
			ID:             uuid.NewString(),
			Event:          draft,
			Status:         domain.StatusPending,
			EnqueuedAt:     now,
			NeedsAttention: draft.NeedsAttention,
		})
	}

	if err := m.pending.Append(items); err != nil {
		return nil, fmt.Errorf("enqueue: %w", err)
	}

	if err := m.syncPendingCount(); err != nil {
		m.logger.Warn("pending count not updated", "error", err)
	}

	return items, nil
}

// List returns all items currently in the queue.
func (m *Manager) List() ([]domain.PendingItem, error) {
	return m.pending.Load()
}

// Publish transitions a pending item to published and moves its event
// into the published set.
func (m *Manager) Publish(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.take(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	item.Status = domain.StatusPublished
	item.DecidedAt = &now

	if err := m.published.Append([]domain.DraftEvent{item.Event}); err != nil {
		return fmt.Errorf("publish %s: %w", id, err)
	}
	if err := m.pending.Remove(id); err != nil {
		return fmt.Errorf("publish %s: %w", id, err)
	}

	m.logger.Info("event published",
		"id", id,
		"title", item.Event.Title,
		"source", item.Event.Source,
	)

	if err := m.syncPendingCount(); err != nil {
		m.logger.Warn("pending count not updated", "error", err)
	}
	return nil
}

// Reject transitions a pending item to rejected and appends exactly one
// rejection record so recurring submissions are auto-dropped.
func (m *Manager) Reject(id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.take(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	item.Status = domain.StatusRejected
	item.DecidedAt = &now

	record := domain.RejectionRecord{
		Title:      item.Event.Title,
		Source:     item.Event.Source,
		RejectedAt: now,
		Reason:     reason,
	}
	if err := m.rejected.Append(record); err != nil {
		return fmt.Errorf("reject %s: %w", id, err)
	}
	if err := m.pending.Remove(id); err != nil {
		return fmt.Errorf("reject %s: %w", id, err)
	}

	m.logger.Info("event rejected",
		"id", id,
		"title", item.Event.Title,
		"source", item.Event.Source,
		"reason", reason,
	)

	if err := m.syncPendingCount(); err != nil {
		m.logger.Warn("pending count not updated", "error", err)
	}
	return nil
}

// AutoPublish enqueues nothing and publishes resolved drafts directly.
// Trusted sources skip the pending stop, but only after a draft has
// passed normalization, deduplication and resolution like any other.
func (m *Manager) AutoPublish(drafts []domain.DraftEvent) error {
	if len(drafts) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.published.Append(drafts); err != nil {
		return fmt.Errorf("auto-publish: %w", err)
	}

	for _, draft := range drafts {
		m.logger.Info("event auto-published",
			"title", draft.Title,
			"source", draft.Source,
		)
	}
	return nil
}

// take loads a pending item for a transition. A missing item means it
// was never enqueued or already reached a terminal state.
func (m *Manager) take(id string) (domain.PendingItem, error) {
	item, found, err := m.pending.Get(id)
	if err != nil {
		return domain.PendingItem{}, err
	}
	if !found {
		return domain.PendingItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if item.Status.Terminal() {
		return domain.PendingItem{}, fmt.Errorf("%w: %s is %s", ErrTerminalState, id, item.Status)
	}
	return item, nil
}

// Stats summarizes the queue and its terminal outcomes.
type Stats struct {
	Pending        int
	NeedsAttention int
	Published      int
	Rejected       int
}

// Stats counts the pending items, the attention-flagged subset, and the
// accumulated published and rejected totals.
func (m *Manager) Stats() (Stats, error) {
	var stats Stats

	items, err := m.pending.Load()
	if err != nil {
		return stats, fmt.Errorf("load pending items: %w", err)
	}
	stats.Pending = len(items)
	for _, item := range items {
		if item.NeedsAttention {
			stats.NeedsAttention++
		}
	}

	events, err := m.published.Load()
	if err != nil {
		return stats, fmt.Errorf("load published events: %w", err)
	}
	stats.Published = len(events)

	records, err := m.rejected.Load()
	if err != nil {
		return stats, fmt.Errorf("load rejection records: %w", err)
	}
	stats.Rejected = len(records)

	return stats, nil
}

// syncPendingCount mirrors the queue length into the published file's
// metadata counter.
func (m *Manager) syncPendingCount() error {
	items, err := m.pending.Load()
	if err != nil {
		return err
	}
	return m.published.SetPendingCount(len(items))
}
