package models

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusRejected  ReservationStatus = "REJECTED"
)

// Active reports whether the reservation still holds its slot.
func (s ReservationStatus) Active() bool {
	return s != StatusCancelled && s != StatusRejected
}

// Reservation represents a booked facility slot.
type Reservation struct {
	ID         string            `bson:"id" json:"id"`                                      // Unique reservation identifier (UUID)
	UserID     string            `bson:"user_id" json:"userId"`                             // Caller who booked
	UserName   string            `bson:"user_name,omitempty" json:"userName,omitempty"`     // Copied from the caller for notifications
	UserEmail  string            `bson:"user_email,omitempty" json:"userEmail,omitempty"`
	FacilityID string            `bson:"facility_id" json:"facilityId"`                     // Catalog id
	Date       string            `bson:"date" json:"date"`                                  // "YYYY-MM-DD"
	Start      int               `bson:"start" json:"-"`                                    // Minutes from midnight
	End        int               `bson:"end" json:"-"`                                      // Minutes from midnight
	Status     ReservationStatus `bson:"status" json:"status"`                              // PENDING, CONFIRMED, ...
	TotalPrice float64           `bson:"total_price" json:"totalPrice"`                     // MAD
	BikeType   string            `bson:"bike_type,omitempty" json:"bikeType,omitempty"`     // bicycles only
	RentalPlan string            `bson:"rental_plan,omitempty" json:"rentalPlan,omitempty"` // bicycles only
	CreatedAt  time.Time         `bson:"created_at" json:"createdAt"`
}

// StartTime returns the start formatted as "HH:MM".
func (r Reservation) StartTime() string { return FormatClock(r.Start) }

// EndTime returns the end formatted as "HH:MM".
func (r Reservation) EndTime() string { return FormatClock(r.End) }

// ReservationView is the wire shape returned by the booking endpoints.
type ReservationView struct {
	Reservation
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// View converts the reservation to its wire shape.
func (r Reservation) View() ReservationView {
	return ReservationView{Reservation: r, StartTime: r.StartTime(), EndTime: r.EndTime()}
}
