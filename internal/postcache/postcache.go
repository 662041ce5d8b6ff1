// Package postcache provides the per-source "already processed" key-set
// store used by social and image sources. Keys are content fingerprints
// of raw posts; a seen key means the post was already turned into a draft
// (or deliberately skipped) in an earlier run.
package postcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Store is the per-source processed-key set.
type Store interface {
	// Seen reports whether the key was already processed.
	Seen(ctx context.Context, key string) (bool, error)
	// Mark records the key as processed.
	Mark(ctx context.Context, key string) error
	// Compact enforces the retention bound, dropping the oldest keys.
	Compact(ctx context.Context) error
}

// Fingerprint derives the cache key for a raw post. The fingerprint is
// content-based so edits to a post produce a new key.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
