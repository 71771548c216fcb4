// Package availability answers whether a facility slot is free.
package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"courtconnect/models"
)

// SlotDuration is the implicit length of every requested booking. It does not
// vary by facility type or by the length of admin windows.
const SlotDuration = 60 * time.Minute

// ReservationLister reads the reservations that still hold a slot.
type ReservationLister interface {
	ListActiveByFacilityDate(ctx context.Context, facilityID, date string) ([]models.Reservation, error)
}

// WindowLister reads admin-declared windows.
type WindowLister interface {
	ListByFacilityDate(ctx context.Context, facilityID, date string) ([]models.AvailabilityWindow, error)
}

// CheckResult is the verdict for one requested start time.
type CheckResult struct {
	Requested        models.TimeRange
	Conflict         *models.TimeRange // nil when the slot is free
	InProvidedWindow bool
}

// Summary lists a day's booked ranges and admin windows.
type Summary struct {
	Booked  []models.TimeRange
	Windows []models.TimeRange
}

func joinRanges(ranges []models.TimeRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// String renders "Booked: 16:00-17:00 Admin slots: ..." style text.
func (s Summary) String() string {
	booked := "No bookings yet."
	if len(s.Booked) > 0 {
		booked = "Booked: " + joinRanges(s.Booked)
	}
	provided := "No admin slots defined; default schedule applies."
	if len(s.Windows) > 0 {
		provided = "Admin slots: " + joinRanges(s.Windows)
	}
	return booked + " " + provided
}

// Oracle combines reservations and admin windows.
type Oracle struct {
	reservations ReservationLister
	windows      WindowLister
}

func NewOracle(reservations ReservationLister, windows WindowLister) *Oracle {
	return &Oracle{reservations: reservations, windows: windows}
}

// Check tests [start, start+SlotDuration) against active reservations and admin windows.
func (o *Oracle) Check(ctx context.Context, facilityID, date, startTime string) (CheckResult, error) {
	start, err := models.ParseClock(startTime)
	if err != nil {
		return CheckResult{}, err
	}
	requested := models.TimeRange{Start: start, End: start + int(SlotDuration/time.Minute)}
	res := CheckResult{Requested: requested}

	booked, err := o.reservations.ListActiveByFacilityDate(ctx, facilityID, date)
	if err != nil {
		return CheckResult{}, fmt.Errorf("list reservations: %w", err)
	}
	for _, b := range booked {
		if !b.Status.Active() || !strings.EqualFold(b.FacilityID, facilityID) {
			continue
		}
		r := models.TimeRange{Start: b.Start, End: b.End}
		if r.Overlaps(requested) {
			res.Conflict = &r
			break
		}
	}

	windows, err := o.windows.ListByFacilityDate(ctx, facilityID, date)
	if err != nil {
		return CheckResult{}, fmt.Errorf("list availability windows: %w", err)
	}
	for _, w := range windows {
		if w.Range().Contains(requested) {
			res.InProvidedWindow = true
			break
		}
	}
	return res, nil
}

// DaySummary lists what is booked and what admins opened on date.
func (o *Oracle) DaySummary(ctx context.Context, facilityID, date string) (Summary, error) {
	var s Summary

	booked, err := o.reservations.ListActiveByFacilityDate(ctx, facilityID, date)
	if err != nil {
		return Summary{}, fmt.Errorf("list reservations: %w", err)
	}
	for _, b := range booked {
		if b.Status.Active() {
			s.Booked = append(s.Booked, models.TimeRange{Start: b.Start, End: b.End})
		}
	}

	windows, err := o.windows.ListByFacilityDate(ctx, facilityID, date)
	if err != nil {
		return Summary{}, fmt.Errorf("list availability windows: %w", err)
	}
	for _, w := range windows {
		s.Windows = append(s.Windows, w.Range())
	}
	return s, nil
}
