package pipeline

import (
	"github.com/jonesrussell/eventcrawl/internal/domain"
)

// Outcome classifies a draft during deduplication.
type Outcome int

const (
	// OutcomeNew means the draft is unseen and proceeds to resolution.
	OutcomeNew Outcome = iota
	// OutcomeDuplicate means the identity hash already exists in the
	// batch, the pending queue or the published set.
	OutcomeDuplicate
	// OutcomeRejected means the (title, source) pair matches rejection
	// memory and the draft is silently dropped.
	OutcomeRejected
)

// Deduper drops drafts whose identity already exists. Duplicate and
// rejected are normal counted outcomes, not errors.
type Deduper struct {
	batch     map[string]struct{}
	known     map[string]struct{}
	rejection map[string]struct{}
}

// NewDeduper creates a deduper over the known hash set (pending queue
// plus published set) and the rejection-memory keys.
func NewDeduper(known, rejection map[string]struct{}) *Deduper {
	if known == nil {
		known = map[string]struct{}{}
	}
	if rejection == nil {
		rejection = map[string]struct{}{}
	}
	return &Deduper{
		batch:     make(map[string]struct{}),
		known:     known,
		rejection: rejection,
	}
}

// Check classifies one normalized draft and records its hash in the
// batch set. Rejection memory is consulted first: a remembered pair is
// dropped even if it would also be a duplicate.
func (d *Deduper) Check(draft *domain.DraftEvent) Outcome {
	if _, ok := d.rejection[domain.RejectionKey(draft.Title, draft.Source)]; ok {
		return OutcomeRejected
	}

	hash := draft.ContentHash
	if _, ok := d.batch[hash]; ok {
		return OutcomeDuplicate
	}
	if _, ok := d.known[hash]; ok {
		return OutcomeDuplicate
	}

	d.batch[hash] = struct{}{}
	return OutcomeNew
}
