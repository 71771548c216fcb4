package facility

import (
	"strings"

	"courtconnect/models"
)

var (
	courtHours   = models.Hours{Weekday: "08:00-21:00", Weekend: "13:00-21:00"}
	bicycleHours = models.Hours{Weekday: "10:00-18:00", Weekend: "10:00-18:00"}
)

// catalog is ordered; the order breaks resolver ties.
var catalog = []models.Facility{
	{ID: "futsal", Name: "Futsal Court 5v5", Type: models.FacilityFutsal, Location: "AUI Indoor Futsal Court", Hours: courtHours},
	{ID: "newfield-half-a", Name: "New Field - Half A", Type: models.FacilityHalfFieldA, Location: "AUI New Field - Half A", Hours: courtHours},
	{ID: "newfield-half-b", Name: "New Field - Half B", Type: models.FacilityHalfFieldB, Location: "AUI New Field - Half B", Hours: courtHours},
	{ID: "tennis-1", Name: "Tennis Court 1", Type: models.FacilityTennis, Location: "AUI Tennis Court 1", Hours: courtHours},
	{ID: "tennis-2", Name: "Tennis Court 2", Type: models.FacilityTennis, Location: "AUI Tennis Court 2", Hours: courtHours},
	{ID: "basketball", Name: "Basketball Court", Type: models.FacilityBasketball, Location: "AUI Basketball Court", Hours: courtHours},
	{ID: "padel", Name: "Padel Court", Type: models.FacilityPadel, Location: "AUI Padel Court", Hours: courtHours},
	{ID: "bicycles", Name: "Bicycles", Type: models.FacilityBicycles, Location: "AUI Bike Rental", Hours: bicycleHours},
}

// Catalog is a read-only view over the facility list.
type Catalog struct {
	items []models.Facility
}

// DefaultCatalog returns the campus facility list.
func DefaultCatalog() *Catalog {
	return NewCatalog(catalog)
}

// NewCatalog copies items into a catalog.
func NewCatalog(items []models.Facility) *Catalog {
	cp := make([]models.Facility, len(items))
	copy(cp, items)
	return &Catalog{items: cp}
}

// All returns the facilities in catalog order.
func (c *Catalog) All() []models.Facility {
	cp := make([]models.Facility, len(c.items))
	copy(cp, c.items)
	return cp
}

// ByID looks a facility up case-insensitively.
func (c *Catalog) ByID(id string) (models.Facility, bool) {
	for _, f := range c.items {
		if strings.EqualFold(f.ID, id) {
			return f, true
		}
	}
	return models.Facility{}, false
}

// FirstOfType returns the first facility with the given type tag.
func (c *Catalog) FirstOfType(t models.FacilityType) (models.Facility, bool) {
	for _, f := range c.items {
		if f.Type == t {
			return f, true
		}
	}
	return models.Facility{}, false
}

// Names returns display names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.items))
	for _, f := range c.items {
		names = append(names, f.Name)
	}
	return names
}
