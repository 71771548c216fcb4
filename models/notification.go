package models

// BookingEventType names a reservation lifecycle change worth telling the user about.
type BookingEventType string

const (
	EventBookingCreated   BookingEventType = "booking:created"
	EventBookingCancelled BookingEventType = "booking:cancelled"
	EventBookingConfirmed BookingEventType = "booking:confirmed"
	EventBookingDeclined  BookingEventType = "booking:declined"
	// EventSlotAvailable tells other users that a cancelled slot is free again.
	EventSlotAvailable    BookingEventType = "booking:slot_available"
)

// BookingEvent is the queued payload for a booking notification.
type BookingEvent struct {
	Type          BookingEventType  `json:"type"`
	ReservationID string            `json:"reservationId"`
	UserID        string            `json:"userId"`
	Username      string            `json:"username"`
	Email         string            `json:"email"`
	FacilityName  string            `json:"facilityName"`
	Date          string            `json:"date"`
	StartTime     string            `json:"startTime"`
	EndTime       string            `json:"endTime"`
	Status        ReservationStatus `json:"status"`
	TotalPrice    float64           `json:"totalPrice"`
}
