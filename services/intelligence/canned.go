package ai

import (
	"regexp"
	"strings"

	"courtconnect/services/facility"
)

const (
	greetingReply     = "Hi! I'm here to help with bookings, availability, prices, and rain checks."
	hoursReply        = "Courts: 08:00-21:00 (weekdays) / 13:00-21:00 (weekends). Bicycles: 10:00-18:00."
	pricingReply      = "Daytime is free. Lighting: 30 MAD (courts/padel/tennis), 40 MAD (half-field) after 18:00. Bicycles: normal 20/50/130/200 MAD, pro 40/80/170/400 MAD for 2h/daily/3d/weekly (admin approval)."
	cancelReply       = "You can cancel your own booking up to 2 hours before start; admins can cancel anytime."
	availabilityReply = "Tell me the facility and date/time, and I'll check availability."
	helpReply         = "I'm here to help with bookings, hours, availability, and rain checks. Tell me the facility and date/time to check a slot."
)

type cannedAnswer struct {
	re    *regexp.Regexp
	reply func(c *facility.Catalog) string
}

func fixed(s string) func(*facility.Catalog) string {
	return func(*facility.Catalog) string { return s }
}

// Checked in order; the first keyword hit answers.
var cannedAnswers = []cannedAnswer{
	{regexp.MustCompile(`\b(hello|hi|hey|how are you)\b`), fixed(greetingReply)},
	{regexp.MustCompile(`\b(facility|facilities|what courts|available courts)\b`), func(c *facility.Catalog) string {
		return "Facilities available: " + strings.Join(c.Names(), ", ") + "."
	}},
	{regexp.MustCompile(`\b(hours|opening|open|time)\b`), fixed(hoursReply)},
	{regexp.MustCompile(`\b(price|prices|fee|fees|cost|costs|mad)\b`), fixed(pricingReply)},
	{regexp.MustCompile(`\bcancel`), fixed(cancelReply)},
	{regexp.MustCompile(`\b(availability|available|booked|slot|slots)\b`), fixed(availabilityReply)},
}

// cannedReply returns a fixed answer for common questions.
func cannedReply(message string, c *facility.Catalog) (string, bool) {
	q := strings.ToLower(message)
	for _, a := range cannedAnswers {
		if a.re.MatchString(q) {
			return a.reply(c), true
		}
	}
	return "", false
}
