package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	reservationRepo "courtconnect/database/repository/reservation"
	"courtconnect/models"
	"courtconnect/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// slotMinutes is the fixed length of every reservation.
const slotMinutes = 60

// studentCancelWindow is how close to the start a student may no longer cancel.
const studentCancelWindow = 2 * time.Hour

// CreateBooking validates the request, prices it and stores a one-hour reservation.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, caller models.Caller, in CreateBookingInput) (*models.Reservation, error) {
	in.FacilityID = strings.TrimSpace(in.FacilityID)
	if in.FacilityID == "" || in.Date == "" || in.StartTime == "" {
		return nil, newBookingError(CodeInvalidInput, "facilityId, date and startTime are required")
	}

	fac, ok := s.Catalog.ByID(in.FacilityID)
	if !ok {
		return nil, newBookingError(CodeNotFound, "Facility not found")
	}
	if _, err := time.ParseInLocation(utils.DateLayout, in.Date, s.Location); err != nil {
		return nil, newBookingError(CodeInvalidInput, "date must be YYYY-MM-DD")
	}
	start, err := models.ParseClock(in.StartTime)
	if err != nil {
		return nil, newBookingError(CodeInvalidInput, "startTime must be HH:MM")
	}
	if start+slotMinutes > models.MinutesPerDay {
		return nil, newBookingError(CodeInvalidInput, "Bookings must end by midnight.")
	}
	startHour, startMinute := start/60, start%60

	if last := lastStartHour(fac.Type); last >= 0 && (startHour > last || startHour == last && startMinute > 0) {
		if fac.Type == models.FacilityBicycles {
			return nil, newBookingError(CodeInvalidInput, "Last booking time for bicycles is 5pm.")
		}
		return nil, newBookingError(CodeInvalidInput, "Last booking time for this field is 8pm.")
	}

	if fac.Type == models.FacilityBicycles {
		if in.BikeType == "" || in.RentalPlan == "" {
			return nil, newBookingError(CodeInvalidInput, "bikeType and rentalPlan are required for bicycle bookings.")
		}
		if _, ok := bikePrices[in.BikeType]; !ok {
			return nil, newBookingError(CodeInvalidInput, "Invalid bikeType.")
		}
	} else {
		in.BikeType, in.RentalPlan = "", ""
	}

	price, ok := CalculatePrice(fac.Type, startHour, in.BikeType, in.RentalPlan)
	if !ok {
		return nil, newBookingError(CodeInvalidInput, "Invalid rentalPlan.")
	}

	reservation := &models.Reservation{
		ID:         uuid.NewString(),
		UserID:     caller.ID,
		UserName:   caller.Username,
		UserEmail:  caller.Email,
		FacilityID: fac.ID,
		Date:       in.Date,
		Start:      start,
		End:        start + slotMinutes,
		Status:     InitialStatus(fac.Type, startHour),
		TotalPrice: price,
		BikeType:   in.BikeType,
		RentalPlan: in.RentalPlan,
		CreatedAt:  s.Now().UTC(),
	}

	if err := s.Repo.CreateIfFree(ctx, reservation); err != nil {
		if errors.Is(err, reservationRepo.ErrSlotTaken) {
			return nil, newBookingError(CodeConflict, conflictMessage)
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.notify(ctx, models.EventBookingCreated, caller, fac.Name, reservation)
	return reservation, nil
}

// CancelBooking cancels a reservation owned by the caller, or any reservation for admins.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, caller models.Caller, reservationID string) (*models.Reservation, error) {
	res, err := s.find(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && res.UserID != caller.ID {
		return nil, newBookingError(CodeForbidden, "You are not allowed to cancel this booking.")
	}
	if res.Status == models.StatusCancelled {
		return nil, newBookingError(CodeInvalidState, "This booking is already cancelled.")
	}

	if caller.Role == models.RoleStudent {
		startsAt, err := s.startsAt(*res)
		if err != nil {
			return nil, fmt.Errorf("reservation %s has a bad date: %w", res.ID, err)
		}
		until := startsAt.Sub(s.Now())
		if until > 0 && until <= studentCancelWindow {
			return nil, newBookingError(CodeTooLate, "You cannot cancel a booking less than 2 hours before the start time.")
		}
	}

	if err := s.setStatus(ctx, res, models.StatusCancelled); err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, models.EventBookingCancelled, res)
	s.notifySlotAvailable(ctx, res)
	return res, nil
}

// ListUpcoming returns the caller's active reservations from today on.
func (s *DefaultBookingService) ListUpcoming(ctx context.Context, caller models.Caller) ([]models.Reservation, error) {
	today := s.Now().In(s.Location).Format(utils.DateLayout)
	out, err := s.Repo.ListUpcomingByUser(ctx, caller.ID, today)
	if err != nil {
		return nil, fmt.Errorf("list upcoming reservations: %w", err)
	}
	return out, nil
}

// ListPending returns reservations awaiting admin approval.
func (s *DefaultBookingService) ListPending(ctx context.Context) ([]models.Reservation, error) {
	out, err := s.Repo.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending reservations: %w", err)
	}
	return out, nil
}

// ConfirmBooking approves a pending reservation.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, reservationID string) (*models.Reservation, error) {
	return s.decide(ctx, reservationID, models.StatusConfirmed, models.EventBookingConfirmed, "Only pending bookings can be confirmed.")
}

// DeclineBooking rejects a pending reservation.
func (s *DefaultBookingService) DeclineBooking(ctx context.Context, reservationID string) (*models.Reservation, error) {
	return s.decide(ctx, reservationID, models.StatusRejected, models.EventBookingDeclined, "Only pending bookings can be declined.")
}

func (s *DefaultBookingService) decide(ctx context.Context, id string, to models.ReservationStatus, event models.BookingEventType, wrongState string) (*models.Reservation, error) {
	res, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != models.StatusPending {
		return nil, newBookingError(CodeInvalidState, wrongState)
	}
	if err := s.setStatus(ctx, res, to); err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, event, res)
	return res, nil
}

func (s *DefaultBookingService) find(ctx context.Context, id string) (*models.Reservation, error) {
	res, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, reservationRepo.ErrNotFound) {
		return nil, newBookingError(CodeNotFound, "Booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	return res, nil
}

func (s *DefaultBookingService) setStatus(ctx context.Context, res *models.Reservation, status models.ReservationStatus) error {
	if err := s.Repo.UpdateStatus(ctx, res.ID, status); err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	res.Status = status
	return nil
}

func (s *DefaultBookingService) startsAt(res models.Reservation) (time.Time, error) {
	day, err := time.ParseInLocation(utils.DateLayout, res.Date, s.Location)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(res.Start) * time.Minute), nil
}

// notifyOwner addresses the event to whoever made the reservation.
func (s *DefaultBookingService) notifyOwner(ctx context.Context, t models.BookingEventType, res *models.Reservation) {
	name := res.FacilityID
	if fac, ok := s.Catalog.ByID(res.FacilityID); ok {
		name = fac.Name
	}
	owner := models.Caller{ID: res.UserID, Username: res.UserName, Email: res.UserEmail}
	s.notify(ctx, t, owner, name, res)
}

// notifySlotAvailable tells every other known user that the slot is free again.
func (s *DefaultBookingService) notifySlotAvailable(ctx context.Context, res *models.Reservation) {
	if s.Notifier == nil {
		return
	}
	contacts, err := s.Repo.ListContacts(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("slot available notice skipped", zap.String("reservationId", res.ID), zap.Error(err))
		}
		return
	}
	name := res.FacilityID
	if fac, ok := s.Catalog.ByID(res.FacilityID); ok {
		name = fac.Name
	}
	for _, c := range contacts {
		if c.ID == res.UserID {
			continue
		}
		s.notify(ctx, models.EventSlotAvailable, c, name, res)
	}
}

func (s *DefaultBookingService) notify(ctx context.Context, t models.BookingEventType, owner models.Caller, facilityName string, res *models.Reservation) {
	if s.Notifier == nil {
		return
	}
	event := models.BookingEvent{
		Type:          t,
		ReservationID: res.ID,
		UserID:        owner.ID,
		Username:      owner.Username,
		Email:         owner.Email,
		FacilityName:  facilityName,
		Date:          res.Date,
		StartTime:     res.StartTime(),
		EndTime:       res.EndTime(),
		Status:        res.Status,
		TotalPrice:    res.TotalPrice,
	}
	if err := s.Notifier.Notify(ctx, event); err != nil && s.Logger != nil {
		s.Logger.Warn("booking notification not queued",
			zap.String("type", string(t)),
			zap.String("reservationId", res.ID),
			zap.Error(err),
		)
	}
}
