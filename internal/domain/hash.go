package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// draftIDLength is the number of hex characters kept from the digest for
// draft identifiers.
const draftIDLength = 16

// normalizeText lowercases a string and collapses all whitespace runs to
// single spaces. Identity comparisons are insensitive to case and
// whitespace.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// DraftID derives the stable per-draft identifier from the source name,
// title and normalized date. Two scrapers discovering the same event
// produce the same id.
func DraftID(source, title string, start time.Time) string {
	day := ""
	if !start.IsZero() {
		day = start.UTC().Format("2006-01-02")
	}
	sum := sha256.Sum256([]byte(normalizeText(source) + "|" + normalizeText(title) + "|" + day))
	return "evt_" + hex.EncodeToString(sum[:])[:draftIDLength]
}

// IdentityHash computes the scraper-independent identity of a draft from
// its title, normalized start time and source. Two scrapers discovering
// the same event at the same source yield an equal hash, so repeat
// discoveries collapse during deduplication.
func IdentityHash(title string, start time.Time, source string) string {
	stamp := ""
	if !start.IsZero() {
		stamp = start.UTC().Format(time.RFC3339)
	}
	sum := sha256.Sum256([]byte(normalizeText(title) + "|" + stamp + "|" + normalizeText(source)))
	return hex.EncodeToString(sum[:])
}

// RejectionKey normalizes a (title, source) pair for rejection-memory
// lookups. Matching is case and whitespace insensitive.
func RejectionKey(title, source string) string {
	return normalizeText(title) + "|" + normalizeText(source)
}
