package booking

import (
	"context"
	"time"

	reservationRepo "courtconnect/database/repository/reservation"
	"courtconnect/models"
	"courtconnect/services/facility"
	"courtconnect/services/notification"

	"go.uber.org/zap"
)

// CreateBookingInput is the booking-creation request.
type CreateBookingInput struct {
	FacilityID string `json:"facilityId"`
	Date       string `json:"date"`      // "YYYY-MM-DD"
	StartTime  string `json:"startTime"` // "HH:MM"
	BikeType   string `json:"bikeType,omitempty"`
	RentalPlan string `json:"rentalPlan,omitempty"`
}

// BookingService creates and manages facility reservations.
type BookingService interface {
	CreateBooking(ctx context.Context, caller models.Caller, in CreateBookingInput) (*models.Reservation, error)
	CancelBooking(ctx context.Context, caller models.Caller, reservationID string) (*models.Reservation, error)
	ListUpcoming(ctx context.Context, caller models.Caller) ([]models.Reservation, error)
	ListPending(ctx context.Context) ([]models.Reservation, error)
	ConfirmBooking(ctx context.Context, reservationID string) (*models.Reservation, error)
	DeclineBooking(ctx context.Context, reservationID string) (*models.Reservation, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     reservationRepo.ReservationRepository
	Catalog  *facility.Catalog
	Notifier notification.Notifier
	Logger   *zap.Logger
	Location *time.Location
	Now      func() time.Time
}

func NewDefaultBookingService(
	repo reservationRepo.ReservationRepository,
	catalog *facility.Catalog,
	notifier notification.Notifier,
	logger *zap.Logger,
	loc *time.Location,
) *DefaultBookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &DefaultBookingService{
		Repo:     repo,
		Catalog:  catalog,
		Notifier: notifier,
		Logger:   logger,
		Location: loc,
		Now:      time.Now,
	}
}
