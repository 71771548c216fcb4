package models

import "fmt"

// TimeRange is a half-open interval of minutes from midnight.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether the two half-open ranges intersect.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && r.End > o.Start
}

// Contains reports whether o lies fully within r.
func (r TimeRange) Contains(o TimeRange) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// String renders the range as "HH:MM-HH:MM".
func (r TimeRange) String() string {
	return fmt.Sprintf("%s-%s", FormatClock(r.Start), FormatClock(r.End))
}

// AvailabilityWindow is an admin-declared open period. Advisory only.
type AvailabilityWindow struct {
	ID         string `bson:"id" json:"id"`
	FacilityID string `bson:"facility_id" json:"facilityId"`
	Date       string `bson:"date" json:"date"`   // "YYYY-MM-DD"
	Start      int    `bson:"start" json:"start"` // Minutes from midnight
	End        int    `bson:"end" json:"end"`     // Minutes from midnight
}

// Range returns the window as a TimeRange.
func (w AvailabilityWindow) Range() TimeRange {
	return TimeRange{Start: w.Start, End: w.End}
}
