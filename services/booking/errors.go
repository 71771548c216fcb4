package booking

import "fmt"

// Error codes carried by BookingError.
const (
	CodeInvalidInput = "invalid_input"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeForbidden    = "forbidden"
	CodeTooLate      = "too_late"
	CodeInvalidState = "invalid_state"
)

// BookingError is a rejection the caller can show to the user as is.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBookingError(code, msg string) error {
	return &BookingError{Code: code, Message: msg}
}

const conflictMessage = "This time slot is already booked for this facility."
