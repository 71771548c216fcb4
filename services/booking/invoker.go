package booking

import (
	"context"
	"errors"
	"time"

	"courtconnect/models"
)

// OutcomeKind classifies a booking attempt.
type OutcomeKind int

const (
	// OutcomeBooked means a reservation was created.
	OutcomeBooked OutcomeKind = iota
	// OutcomeRejected means the booking service answered with a reason.
	OutcomeRejected
	// OutcomeFailed means the call itself broke.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeBooked:
		return "booked"
	case OutcomeRejected:
		return "rejected"
	default:
		return "failed"
	}
}

// Request is a fully resolved booking intent.
type Request struct {
	Caller     models.Caller
	FacilityID string
	Date       string
	StartTime  string
}

// Outcome is the typed result of one attempt.
type Outcome struct {
	Kind        OutcomeKind
	Reservation *models.Reservation // set when Booked
	Message     string              // rejection text, or the error for Failed
	Err         error
}

// Creator is the booking-creation operation the invoker drives.
type Creator interface {
	CreateBooking(ctx context.Context, caller models.Caller, in CreateBookingInput) (*models.Reservation, error)
}

// Invoker makes a single booking attempt with no retry.
type Invoker struct {
	creator Creator
	timeout time.Duration
}

// NewInvoker wraps creator. A zero timeout leaves the parent context alone.
func NewInvoker(creator Creator, timeout time.Duration) *Invoker {
	return &Invoker{creator: creator, timeout: timeout}
}

func (i *Invoker) Invoke(ctx context.Context, req Request) Outcome {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	res, err := i.creator.CreateBooking(ctx, req.Caller, CreateBookingInput{
		FacilityID: req.FacilityID,
		Date:       req.Date,
		StartTime:  req.StartTime,
	})

	var be *BookingError
	switch {
	case err == nil && res != nil:
		return Outcome{Kind: OutcomeBooked, Reservation: res}
	case err == nil:
		return Outcome{Kind: OutcomeRejected}
	case errors.As(err, &be):
		return Outcome{Kind: OutcomeRejected, Message: be.Message, Err: err}
	default:
		return Outcome{Kind: OutcomeFailed, Message: err.Error(), Err: err}
	}
}
