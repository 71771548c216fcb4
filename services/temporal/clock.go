package temporal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Candidate is one parsed clock-time guess.
type Candidate struct {
	Time                 string // "HH:MM"
	HasExplicitMeridian  bool
	HasExplicitSeparator bool
	SourceOffset         int

	end int
}

var (
	// hour, minute separator, minute, meridian or hour marker
	clockRE = regexp.MustCompile(`(\d{1,2})(?:([:h\s]?)(\d{2}))?\s*(a\.?m\.?|p\.?m\.?|am|pm|h)?`)

	// "2 hours", "4 players": a count, not a clock time.
	unitRE = regexp.MustCompile(`^\s*(?:hours?|hrs?|mins?|minutes?|people|persons?|players?)\b`)

	// "3pm to 5pm", "9-10", "9 until 10:30"
	rangeJoinRE = regexp.MustCompile(`^\s*(?:to|-|until|till)\s*$`)

	noonRE     = regexp.MustCompile(`\bnoon\b`)
	midnightRE = regexp.MustCompile(`\bmidnight\b`)
)

func isDigitAt(text string, i int) bool {
	return i >= 0 && i < len(text) && text[i] >= '0' && text[i] <= '9'
}

func isLetterAt(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsLetter(r)
}

// scanCandidates returns up to limit clock tokens in order of appearance.
// limit <= 0 means no limit.
func scanCandidates(text string, limit int) []Candidate {
	var out []Candidate
	for _, m := range clockRE.FindAllStringSubmatchIndex(text, -1) {
		if c, ok := candidateFromMatch(text, m); ok {
			out = append(out, c)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func candidateFromMatch(text string, m []int) (Candidate, bool) {
	start := m[0]
	hourStr := text[m[2]:m[3]]
	hasMinutes := m[6] >= 0
	glued := hasMinutes && m[4] == m[5]

	coreEnd := m[3]
	if hasMinutes {
		coreEnd = m[7]
	}

	suffix := ""
	if m[8] >= 0 {
		suffix = strings.ReplaceAll(text[m[8]:m[9]], ".", "")
		// "5 amazing", "5 hours": the letters belong to a word.
		if isLetterAt(text, m[9]) {
			suffix = ""
		}
	}
	meridian := suffix == "am" || suffix == "pm"
	hourMarker := suffix == "h"
	separator := hasMinutes || hourMarker

	// Part of a longer digit run (phone numbers, years, unmasked dates).
	if isDigitAt(text, start-1) || isDigitAt(text, coreEnd) {
		return Candidate{}, false
	}
	if isDateFragment(text, start, coreEnd) {
		return Candidate{}, false
	}
	// "2025" reads as a year unless a meridian or hour marker says otherwise.
	if glued && !meridian && !hourMarker {
		return Candidate{}, false
	}
	// "13th": ordinal suffix, not a time.
	if !meridian && !separator && isLetterAt(text, coreEnd) {
		return Candidate{}, false
	}
	if !meridian && !separator && unitRE.MatchString(text[coreEnd:]) {
		return Candidate{}, false
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return Candidate{}, false
	}
	minute := 0
	if hasMinutes {
		minute, _ = strconv.Atoi(text[m[6]:m[7]])
	}

	if suffix == "pm" && hour < 12 {
		hour += 12
	}
	if suffix == "am" && hour == 12 {
		hour = 0
	}
	if hour > 23 || minute > 59 {
		return Candidate{}, false
	}

	return Candidate{
		Time:                 fmt.Sprintf("%02d:%02d", hour, minute),
		HasExplicitMeridian:  meridian,
		HasExplicitSeparator: separator,
		SourceOffset:         start,
		end:                  m[1],
	}, true
}

// isDateFragment reports a token glued to a slash and another number, like
// either half of "5/12".
func isDateFragment(text string, start, end int) bool {
	before := start >= 2 && text[start-1] == '/' && isDigitAt(text, start-2)
	after := end+1 < len(text) && text[end] == '/' && isDigitAt(text, end+1)
	return before || after
}

// pickTime prefers the first candidate with an explicit meridian, else the earliest.
func pickTime(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	for _, c := range candidates {
		if c.HasExplicitMeridian {
			return c, true
		}
	}
	return candidates[0], true
}

// parseClockTime resolves one time from text.
func parseClockTime(text string) (string, bool) {
	if noonRE.MatchString(text) {
		return "12:00", true
	}
	if midnightRE.MatchString(text) {
		return "00:00", true
	}
	c, ok := pickTime(scanCandidates(text, 0))
	if !ok {
		return "", false
	}
	return c.Time, true
}

// parseClockRange collects up to two times in order of appearance. joined is
// true only when a connector word or dash sits between them.
func parseClockRange(text string) (times []string, joined bool) {
	candidates := scanCandidates(text, 2)
	for _, c := range candidates {
		times = append(times, c.Time)
	}
	if len(candidates) == 2 {
		first, second := candidates[0], candidates[1]
		joined = first.end <= second.SourceOffset && rangeJoinRE.MatchString(text[first.end:second.SourceOffset])
	}
	return times, joined
}
