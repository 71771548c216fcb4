// Package temporal reads calendar dates and clock times out of free text using
// deterministic rules only.
package temporal

import (
	"strings"
	"time"
)

// Result is everything the extractor found in one message.
type Result struct {
	Date  *DateResult
	Time  string   // "HH:MM", empty when unresolved
	Range []string // up to two times in order of appearance

	rangeJoined bool
}

// HasTime reports whether a clock time was resolved.
func (r Result) HasTime() bool { return r.Time != "" }

// HasRange reports whether two distinct times were written as a range
// ("3pm to 5pm"), not merely mentioned in the same message.
func (r Result) HasRange() bool {
	return r.rangeJoined && len(r.Range) == 2 && r.Range[0] != r.Range[1]
}

// Extractor resolves dates relative to "now" in a fixed reference zone.
type Extractor struct {
	loc        *time.Location
	now        func() time.Time
	strategies []DateStrategy
}

// NewExtractor builds an extractor. A nil loc means UTC and a nil now means time.Now.
func NewExtractor(loc *time.Location, now func() time.Time) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Extractor{loc: loc, now: now, strategies: DefaultDateStrategies}
}

// WithStrategies returns a copy using a different date strategy order.
func (e *Extractor) WithStrategies(strategies ...DateStrategy) *Extractor {
	cp := *e
	cp.strategies = strategies
	return &cp
}

// Today returns midnight of the current day in the reference zone.
func (e *Extractor) Today() time.Time {
	n := e.now().In(e.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, e.loc)
}

// Location returns the reference zone.
func (e *Extractor) Location() *time.Location { return e.loc }

// ExtractDate runs the date strategies in order and returns the first hit.
func (e *Extractor) ExtractDate(text string) (DateResult, bool) {
	lower := strings.ToLower(text)
	today := e.Today()
	for _, s := range e.strategies {
		if res, ok := s.Parse(lower, today); ok {
			res.Source = s.Name
			return res, true
		}
	}
	return DateResult{}, false
}

// ExtractTime returns the best clock time in text.
func (e *Extractor) ExtractTime(text string) (string, bool) {
	return parseClockTime(strings.ToLower(text))
}

// ExtractTimeRange returns up to two clock times in order of appearance.
func (e *Extractor) ExtractTimeRange(text string) []string {
	times, _ := parseClockRange(strings.ToLower(text))
	return times
}

// Extract resolves the date first, then reads times from the text with the
// date span and any other date-shaped run blanked out so "2025", "12/12" or
// an impossible "2025-02-30" never turn into clock times.
func (e *Extractor) Extract(text string) Result {
	lower := strings.ToLower(text)
	var res Result

	spans := numericDateSpans(lower)
	if d, ok := e.ExtractDate(lower); ok {
		res.Date = &d
		spans = append(spans, d.Span)
	}
	clipped := Mask(lower, spans...)

	if t, ok := parseClockTime(clipped); ok {
		res.Time = t
	}
	res.Range, res.rangeJoined = parseClockRange(clipped)
	return res
}

// Mask replaces each span with spaces, keeping byte offsets stable.
func Mask(text string, spans ...Span) string {
	if len(spans) == 0 {
		return text
	}
	b := []byte(text)
	for _, s := range spans {
		if s.Start < 0 || s.End > len(b) || s.Start >= s.End {
			continue
		}
		for i := s.Start; i < s.End; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}
