package temporal

import (
	"regexp"
	"strconv"
	"time"
)

// Span is a byte range [Start, End) in the lowercased message.
type Span struct {
	Start int
	End   int
}

// DateResult is a resolved calendar date with its provenance.
type DateResult struct {
	Date         string // "YYYY-MM-DD"
	Source       string // strategy name
	Span         Span
	ExplicitYear bool
}

// DateStrategy is one pure attempt at reading a date. today is midnight in the
// reference zone.
type DateStrategy struct {
	Name  string
	Parse func(text string, today time.Time) (DateResult, bool)
}

// DefaultDateStrategies is the resolution order: numeric, natural, relative.
var DefaultDateStrategies = []DateStrategy{
	{Name: "numeric", Parse: parseNumericDate},
	{Name: "natural", Parse: parseNaturalDate},
	{Name: "relative", Parse: parseRelativeDate},
}

var (
	numericDateRE = regexp.MustCompile(`\b(?:(\d{4})-(\d{2})-(\d{2})|(\d{1,2})[/-](\d{1,2})[/-](\d{4}))\b`)

	monthPattern = `(january|february|march|april|may|june|july|august|september|october|november|december|sept|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)`

	// "12th december 2025", "the 13th of may"
	dayMonthRE = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `\b(?:,?\s+(\d{4})\b)?`)
	// "december 12", "may 3rd, 2026"
	monthDayRE = regexp.MustCompile(`\b` + monthPattern + `\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)

	dayAfterTomorrowRE = regexp.MustCompile(`\bday after tomorrow\b`)
	todayRE            = regexp.MustCompile(`\btoday\b`)
	tomorrowRE         = regexp.MustCompile(`\btomorrow\b`)
)

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// calendarDate builds a date and rejects overflow such as 31/02.
func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func parseNumericDate(text string, today time.Time) (DateResult, bool) {
	m := numericDateRE.FindStringSubmatchIndex(text)
	if m == nil {
		return DateResult{}, false
	}
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return text[m[2*i]:m[2*i+1]]
	}

	var y, mo, d int
	if group(1) != "" {
		y, _ = strconv.Atoi(group(1))
		mo, _ = strconv.Atoi(group(2))
		d, _ = strconv.Atoi(group(3))
	} else {
		d, _ = strconv.Atoi(group(4))
		mo, _ = strconv.Atoi(group(5))
		y, _ = strconv.Atoi(group(6))
	}

	date, ok := calendarDate(y, time.Month(mo), d, today.Location())
	if !ok {
		return DateResult{}, false
	}
	return DateResult{
		Date:         isoDate(date),
		Source:       "numeric",
		Span:         Span{Start: m[0], End: m[1]},
		ExplicitYear: true,
	}, true
}

// numericDateSpans returns every date-shaped run such as "2025-02-30", valid or
// not, so its digits are never read as clock times.
func numericDateSpans(text string) []Span {
	var out []Span
	for _, m := range numericDateRE.FindAllStringIndex(text, -1) {
		out = append(out, Span{Start: m[0], End: m[1]})
	}
	return out
}

func parseNaturalDate(text string, today time.Time) (DateResult, bool) {
	var (
		dayStr, monthStr, yearStr string
		span                      Span
	)
	if m := dayMonthRE.FindStringSubmatchIndex(text); m != nil {
		dayStr, monthStr = text[m[2]:m[3]], text[m[4]:m[5]]
		if m[6] >= 0 {
			yearStr = text[m[6]:m[7]]
		}
		span = Span{Start: m[0], End: m[1]}
	} else if m := monthDayRE.FindStringSubmatchIndex(text); m != nil {
		monthStr, dayStr = text[m[2]:m[3]], text[m[4]:m[5]]
		if m[6] >= 0 {
			yearStr = text[m[6]:m[7]]
		}
		span = Span{Start: m[0], End: m[1]}
	} else {
		return DateResult{}, false
	}

	month, ok := months[monthStr]
	if !ok {
		return DateResult{}, false
	}
	day, _ := strconv.Atoi(dayStr)

	year := today.Year()
	explicit := yearStr != ""
	if explicit {
		year, _ = strconv.Atoi(yearStr)
	}

	date, ok := calendarDate(year, month, day, today.Location())
	if !explicit && (!ok || date.Before(today)) {
		// Already passed this year (or only valid in a leap year): try next year.
		date, ok = calendarDate(year+1, month, day, today.Location())
	}
	if !ok {
		return DateResult{}, false
	}
	return DateResult{
		Date:         isoDate(date),
		Source:       "natural",
		Span:         span,
		ExplicitYear: explicit,
	}, true
}

func parseRelativeDate(text string, today time.Time) (DateResult, bool) {
	rules := []struct {
		re     *regexp.Regexp
		offset int
	}{
		{dayAfterTomorrowRE, 2},
		{todayRE, 0},
		{tomorrowRE, 1},
	}
	for _, rule := range rules {
		if loc := rule.re.FindStringIndex(text); loc != nil {
			return DateResult{
				Date:   isoDate(today.AddDate(0, 0, rule.offset)),
				Source: "relative",
				Span:   Span{Start: loc[0], End: loc[1]},
			}, true
		}
	}
	return DateResult{}, false
}
