package extract

import (
	"context"
	"strings"
	"time"
)

// HeuristicProvider is a deterministic, network-free provider built on
// the substring detectors. It is the fallback when no generative provider
// is configured, and the workhorse of tests.
type HeuristicProvider struct {
	// Location used to interpret detected local times.
	Timezone *time.Location
}

// NewHeuristicProvider creates the detector-backed provider. A nil
// timezone defaults to UTC.
func NewHeuristicProvider(tz *time.Location) *HeuristicProvider {
	if tz == nil {
		tz = time.UTC
	}
	return &HeuristicProvider{Timezone: tz}
}

// Name identifies the provider.
func (p *HeuristicProvider) Name() string {
	return "heuristic"
}

// Available always reports true; the provider needs no credentials.
func (p *HeuristicProvider) Available() bool {
	return true
}

// ExtractEventInfo fills fields from detector output alone. It only
// returns what it is sure about: the first parseable date, the first
// time, the first URL and the first price.
func (p *HeuristicProvider) ExtractEventInfo(ctx context.Context, text string) (*Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detected := Detect(Signals{PostText: text})
	extraction := &Extraction{}

	if start, ok := p.combineDateTime(detected.Dates, detected.Times); ok {
		extraction.StartTime = start.Format(time.RFC3339)
	}
	if len(detected.URLs) > 0 {
		extraction.URL = detected.URLs[0]
	}
	if len(detected.Prices) > 0 {
		extraction.Price = detected.Prices[0]
	}

	return extraction, nil
}

// dateLayouts are tried in order against detected date substrings.
var dateLayouts = []string{
	"2006-01-02",
	"2.1.2006",
	"02.01.2006",
	"2.1.06",
	"2. January 2006",
	"2. January",
	"2 January 2006",
	"2 January",
}

// combineDateTime builds a start time from the first parseable detected
// date, attaching the first detected clock time when present.
func (p *HeuristicProvider) combineDateTime(dates, times []string) (time.Time, bool) {
	var day time.Time
	found := false

	for _, candidate := range dates {
		normalized := strings.TrimSpace(candidate)
		for _, layout := range dateLayouts {
			parsed, err := time.ParseInLocation(layout, normalized, p.Timezone)
			if err != nil {
				continue
			}
			// Layouts without a year parse into year 0.
			if parsed.Year() == 0 {
				parsed = parsed.AddDate(time.Now().Year(), 0, 0)
			}
			day = parsed
			found = true
			break
		}
		if found {
			break
		}
	}

	if !found {
		return time.Time{}, false
	}

	if len(times) > 0 {
		if hour, minute, ok := parseClock(times[0]); ok {
			day = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.Timezone)
		}
	}

	return day, true
}

// parseClock interprets a detected time substring such as "19:30",
// "19.30 Uhr", "7 pm".
func parseClock(s string) (hour, minute int, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	pm := strings.Contains(s, "pm")
	am := strings.Contains(s, "am")
	s = strings.NewReplacer("uhr", "", "am", "", "pm", "", " ", "").Replace(s)
	s = strings.ReplaceAll(s, ".", ":")

	parts := strings.SplitN(s, ":", 2)
	hour = atoiSafe(parts[0])
	if len(parts) == 2 {
		minute = atoiSafe(parts[1])
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	if pm && hour < 12 {
		hour += 12
	}
	if am && hour == 12 {
		hour = 0
	}
	return hour, minute, true
}

// atoiSafe parses a small integer, returning -1 on failure.
func atoiSafe(s string) int {
	n := 0
	if s == "" {
		return -1
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
