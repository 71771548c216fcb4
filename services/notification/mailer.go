package notification

import (
	"context"
	"fmt"

	"courtconnect/models"

	"go.uber.org/zap"
)

// Email is a rendered message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers rendered email. The SMTP side lives outside this service.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer writes outgoing email to the log.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.logger.Info("email",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("body", email.Body),
	)
	return nil
}

// RenderEmail builds the user-facing message for a booking event.
func RenderEmail(e models.BookingEvent) (Email, error) {
	if e.Email == "" {
		return Email{}, fmt.Errorf("booking event %s has no recipient", e.ReservationID)
	}
	slot := fmt.Sprintf("Facility: %s\nDate: %s\nTime: %s-%s", e.FacilityName, e.Date, e.StartTime, e.EndTime)

	var subject, body string
	switch e.Type {
	case models.EventBookingCreated:
		status := string(e.Status)
		if e.Status == models.StatusPending {
			status = "PENDING (awaiting admin approval)"
		}
		subject = "CourtConnect - Booking Request Received"
		body = fmt.Sprintf("Hi %s, your booking request was created.\n%s\nPrice: %.0f dh\nStatus: %s.",
			e.Username, slot, e.TotalPrice, status)
	case models.EventBookingCancelled:
		subject = "CourtConnect - Booking Cancelled"
		body = fmt.Sprintf("Hi %s, your booking has been cancelled.\n%s\nStatus: CANCELLED", e.Username, slot)
	case models.EventBookingConfirmed:
		subject = "CourtConnect - Booking Confirmed"
		body = fmt.Sprintf("Hi %s, your booking has been confirmed.\n%s\nTotal: %.0f dh\nStatus: CONFIRMED",
			e.Username, slot, e.TotalPrice)
	case models.EventSlotAvailable:
		subject = "CourtConnect - Slot Available"
		body = fmt.Sprintf("A booking was cancelled for %s on %s at %s.", e.FacilityName, e.Date, e.StartTime)
	case models.EventBookingDeclined:
		subject = "CourtConnect - Booking Declined"
		body = fmt.Sprintf("Hi %s, your booking was declined by the admin.\n%s\nStatus: REJECTED", e.Username, slot)
	default:
		return Email{}, fmt.Errorf("unknown booking event type %q", e.Type)
	}
	return Email{To: e.Email, Subject: subject, Body: body}, nil
}
