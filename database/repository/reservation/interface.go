package reservationRepo

import (
	"context"
	"errors"

	"courtconnect/database"
	"courtconnect/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrSlotTaken is returned by CreateIfFree when an active reservation overlaps.
	ErrSlotTaken = errors.New("reservation overlaps an existing booking")
	// ErrNotFound is returned when no reservation has the requested id.
	ErrNotFound = errors.New("reservation not found")
)

// ReservationRepository persists facility reservations.
type ReservationRepository interface {
	ListActiveByFacilityDate(ctx context.Context, facilityID, date string) ([]models.Reservation, error)
	ListUpcomingByUser(ctx context.Context, userID, fromDate string) ([]models.Reservation, error)
	ListByStatus(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error)
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	CreateIfFree(ctx context.Context, reservation *models.Reservation) error
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
	// ListContacts returns one entry per user that ever booked with an email on file.
	ListContacts(ctx context.Context) ([]models.Caller, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoReservationRepo struct {
	coll  *mongo.Collection
	locks *mongo.Collection // one document per facility and date, bumped by every insert
}

// NewMongoReservationRepo constructs a MongoDB-backed ReservationRepository.
func NewMongoReservationRepo() ReservationRepository {
	db := database.Database()
	return &mongoReservationRepo{
		coll:  db.Collection("reservations"),
		locks: db.Collection("reservation_locks"),
	}
}
