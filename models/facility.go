package models

// FacilityType tags a catalog entry so keyword fallbacks can pick the first of a kind.
type FacilityType string

const (
	FacilityFutsal     FacilityType = "futsal"
	FacilityHalfFieldA FacilityType = "half-field-a"
	FacilityHalfFieldB FacilityType = "half-field-b"
	FacilityTennis     FacilityType = "tennis"
	FacilityBasketball FacilityType = "basketball"
	FacilityPadel      FacilityType = "padel"
	FacilityBicycles   FacilityType = "bicycles"
)

// IsHalfField reports whether the type is one half of the new field.
func (t FacilityType) IsHalfField() bool {
	return t == FacilityHalfFieldA || t == FacilityHalfFieldB
}

// Hours holds display opening hours, e.g. "08:00-21:00".
type Hours struct {
	Weekday string `json:"weekday"`
	Weekend string `json:"weekend"`
}

// Facility is an immutable catalog entry.
type Facility struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     FacilityType `json:"type"`
	Location string       `json:"location"`
	Hours    Hours        `json:"hours"`
}
