package sources

import (
	"strings"
)

// adTerms are substrings that mark promotional content when a source has
// ad filtering enabled. Matching is case-insensitive.
var adTerms = []string{
	"sponsored",
	"advertisement",
	"anzeige",
	"werbung",
	"promo code",
	"% off",
	"sale ends",
	"buy now",
	"gewinnspiel",
}

// FilterVerdict explains why a draft was dropped by the capability filter.
type FilterVerdict struct {
	Keep   bool
	Reason string
}

// Filter applies per-source keyword and ad heuristics to a draft's title
// and description before the draft is accepted.
type Filter struct {
	filterAds bool
	include   []string
	exclude   []string
}

// NewFilter builds the capability filter for one source configuration.
func NewFilter(cfg *Config) *Filter {
	return &Filter{
		filterAds: cfg.Options.FilterAds,
		include:   lowerAll(cfg.Options.IncludeKeywords),
		exclude:   lowerAll(cfg.Options.ExcludeKeywords),
	}
}

// Evaluate checks title and description against the source's rules.
// All matching is case-insensitive substring matching.
func (f *Filter) Evaluate(title, description string) FilterVerdict {
	haystack := strings.ToLower(title + " " + description)

	for _, kw := range f.exclude {
		if kw != "" && strings.Contains(haystack, kw) {
			return FilterVerdict{Keep: false, Reason: "excluded keyword: " + kw}
		}
	}

	if f.filterAds {
		for _, term := range adTerms {
			if strings.Contains(haystack, term) {
				return FilterVerdict{Keep: false, Reason: "ad heuristic: " + term}
			}
		}
	}

	if len(f.include) > 0 {
		for _, kw := range f.include {
			if kw != "" && strings.Contains(haystack, kw) {
				return FilterVerdict{Keep: true}
			}
		}
		return FilterVerdict{Keep: false, Reason: "no include keyword matched"}
	}

	return FilterVerdict{Keep: true}
}

// lowerAll lowercases every entry of a keyword list.
func lowerAll(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = strings.ToLower(strings.TrimSpace(kw))
	}
	return out
}
