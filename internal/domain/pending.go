package domain

import "time"

// Status represents the workflow state of a pending item.
type Status string

const (
	// StatusPending means the item is waiting for an editor decision.
	StatusPending Status = "pending"
	// StatusPublished means the item was approved.
	StatusPublished Status = "published"
	// StatusRejected means the item was rejected.
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status permits no further transition.
func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusRejected
}

// PendingItem wraps a resolved draft with its editorial workflow metadata.
type PendingItem struct {
	// Unique workflow identifier (random, not content-derived)
	ID string `json:"id"`
	// The resolved draft event
	Event DraftEvent `json:"event"`
	// Current workflow status
	Status Status `json:"status"`
	// Time the item entered the queue
	EnqueuedAt time.Time `json:"enqueued_at"`
	// NeedsAttention flags items with incomplete extraction
	NeedsAttention bool `json:"needs_attention,omitempty"`
	// DecidedAt is set when the item reaches a terminal status
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// RejectionRecord remembers a rejected (title, source) pair so recurring
// submissions of the same event are silently dropped.
type RejectionRecord struct {
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	RejectedAt time.Time `json:"rejected_at"`
	Reason     string    `json:"reason,omitempty"`
}
