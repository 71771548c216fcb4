package facility

import (
	"regexp"
	"strings"

	"courtconnect/models"
)

// Rule names which precedence level produced a match.
type Rule string

const (
	RuleDirect Rule = "direct"
	RuleAlias  Rule = "alias"
	RuleType   Rule = "type"
)

// Match is a resolved facility and the byte span of the lowercased text that named it.
type Match struct {
	Facility models.Facility
	Rule     Rule
	Start    int
	End      int
}

type aliasEntry struct {
	facilityID string
	re         *regexp.Regexp
}

type typeKeyword struct {
	re       *regexp.Regexp
	facility models.FacilityType
}

func words(ws ...string) *regexp.Regexp {
	quoted := make([]string, len(ws))
	for i, w := range ws {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func prefixes(ws ...string) *regexp.Regexp {
	quoted := make([]string, len(ws))
	for i, w := range ws {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`)
}

// Misspellings and synonyms, checked in this order.
var aliases = []aliasEntry{
	{"padel", words("paddle", "paddel", "padle", "padl")},
	{"futsal", words("football sala", "sala")},
	{"basketball", words("basket ball", "basket")},
	{"bicycles", words("bikes", "bike", "bicycle")},
	{"newfield-half-a", words("field a", "half a", "left side", "left field", "field left")},
	{"newfield-half-b", words("field b", "half b", "right side", "right field", "field right")},
}

// Type-level fallbacks, used only when nothing specific matched.
var typeKeywords = []typeKeyword{
	{prefixes("tennis"), models.FacilityTennis},
	{prefixes("padel", "paddle", "paddel"), models.FacilityPadel},
	{prefixes("futsal"), models.FacilityFutsal},
	{prefixes("soccer", "field"), models.FacilityHalfFieldA},
	{prefixes("basket"), models.FacilityBasketball},
	{prefixes("bike", "bicycle"), models.FacilityBicycles},
}

// minReverseLen is the shortest input that may match as a substring of a name.
const minReverseLen = 3

// Resolver maps free text to exactly one catalog entry.
type Resolver struct {
	catalog *Catalog
}

// NewResolver builds a resolver over c.
func NewResolver(c *Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve applies direct, alias and type rules in that order.
func (r *Resolver) Resolve(text string) (Match, bool) {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return Match{}, false
	}
	if m, ok := r.direct(t); ok {
		return m, true
	}
	if m, ok := r.alias(t); ok {
		return m, true
	}
	return r.byType(t)
}

func (r *Resolver) direct(t string) (Match, bool) {
	trimmed := strings.TrimSpace(t)
	for _, f := range r.catalog.items {
		id := strings.ToLower(f.ID)
		name := strings.ToLower(f.Name)
		if i := strings.Index(t, id); i >= 0 {
			return Match{Facility: f, Rule: RuleDirect, Start: i, End: i + len(id)}, true
		}
		if i := strings.Index(t, name); i >= 0 {
			return Match{Facility: f, Rule: RuleDirect, Start: i, End: i + len(name)}, true
		}
		if len(trimmed) >= minReverseLen && strings.Contains(name, trimmed) {
			i := strings.Index(t, trimmed)
			return Match{Facility: f, Rule: RuleDirect, Start: i, End: i + len(trimmed)}, true
		}
	}
	return Match{}, false
}

func (r *Resolver) alias(t string) (Match, bool) {
	for _, a := range aliases {
		loc := a.re.FindStringIndex(t)
		if loc == nil {
			continue
		}
		if f, ok := r.catalog.ByID(a.facilityID); ok {
			return Match{Facility: f, Rule: RuleAlias, Start: loc[0], End: loc[1]}, true
		}
	}
	return Match{}, false
}

func (r *Resolver) byType(t string) (Match, bool) {
	for _, k := range typeKeywords {
		loc := k.re.FindStringIndex(t)
		if loc == nil {
			continue
		}
		if f, ok := r.catalog.FirstOfType(k.facility); ok {
			return Match{Facility: f, Rule: RuleType, Start: loc[0], End: loc[1]}, true
		}
	}
	return Match{}, false
}
