package extract

import (
	"regexp"
	"strings"
)

// Signals collects everything known about a post or page before the
// provider is asked to fill the gaps.
type Signals struct {
	// PostText is the raw text of a social post.
	PostText string
	// PageText is the visible text of a scraped page.
	PageText string
	// OCRText is optical-text output from attached images.
	OCRText string
	// Hints are source-level keyword hints (e.g. include keywords).
	Hints []string
}

// Detected holds substrings recognized by the regex detectors. They are
// surfaced to the provider so it does not have to rediscover them.
type Detected struct {
	Dates  []string
	Times  []string
	URLs   []string
	Prices []string
}

// Detector regexes. These stay deliberately permissive: the provider
// validates semantics, the detectors only surface candidates.
var (
	dateRe = regexp.MustCompile(
		`(?i)\b(\d{1,2}\.\s?\d{1,2}\.\s?\d{2,4}|\d{4}-\d{2}-\d{2}|` +
			`\d{1,2}\.?\s+(?:jan(?:uar)?|feb(?:ruar)?|m[aä]rz?|apr(?:il)?|ma[iy]|jun[ie]?|` +
			`jul[iy]?|aug(?:ust)?|sep(?:tember)?|okt(?:ober)?|oct(?:ober)?|nov(?:ember)?|` +
			`dez(?:ember)?|dec(?:ember)?)\.?(?:\s+\d{2,4})?)\b`)
	timeRe  = regexp.MustCompile(`(?i)\b(\d{1,2}[:.]\d{2}(?:\s?(?:uhr|am|pm))?|\d{1,2}\s?(?:uhr|am|pm))\b`)
	urlRe   = regexp.MustCompile(`https?://[^\s<>"']+`)
	priceRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d{2})?\s?(?:€|eur|euro|usd|\$)|eintritt\s+frei|free entry|kostenlos)`)
)

// Detect runs the substring detectors over all signal texts.
func Detect(sig Signals) Detected {
	text := strings.Join([]string{sig.PostText, sig.PageText, sig.OCRText}, "\n")
	return Detected{
		Dates:  dedupeMatches(dateRe.FindAllString(text, -1)),
		Times:  dedupeMatches(timeRe.FindAllString(text, -1)),
		URLs:   dedupeMatches(urlRe.FindAllString(text, -1)),
		Prices: dedupeMatches(priceRe.FindAllString(text, -1)),
	}
}

// BuildContext aggregates all signals and detector output into the one
// text block sent to the provider. Returns ErrEmptyContext when there is
// nothing to send.
func BuildContext(sig Signals) (string, error) {
	var b strings.Builder

	appendSection(&b, "POST", sig.PostText)
	appendSection(&b, "PAGE", sig.PageText)
	appendSection(&b, "IMAGE TEXT", sig.OCRText)

	detected := Detect(sig)
	appendSection(&b, "DETECTED DATES", strings.Join(detected.Dates, "; "))
	appendSection(&b, "DETECTED TIMES", strings.Join(detected.Times, "; "))
	appendSection(&b, "DETECTED URLS", strings.Join(detected.URLs, "; "))
	appendSection(&b, "DETECTED PRICES", strings.Join(detected.Prices, "; "))
	appendSection(&b, "KEYWORD HINTS", strings.Join(sig.Hints, ", "))

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyContext
	}
	return out, nil
}

// appendSection writes one labeled section, skipping empty content.
func appendSection(b *strings.Builder, label, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(":\n")
	b.WriteString(content)
	b.WriteString("\n\n")
}

// dedupeMatches removes duplicate detector matches, preserving order.
func dedupeMatches(matches []string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToLower(strings.TrimSpace(m))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
