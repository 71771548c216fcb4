package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	reservationRepo "courtconnect/database/repository/reservation"
	"courtconnect/models"
	"courtconnect/services/facility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.BookingEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, e models.BookingEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.err
}

var student = models.Caller{ID: "u1", Username: "Nabil", Email: "n.bachiri@aui.ma", Role: models.RoleStudent}

func newTestService(t *testing.T, seed ...models.Reservation) (*DefaultBookingService, *recordingNotifier) {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Casablanca")
	require.NoError(t, err)

	n := &recordingNotifier{}
	svc := NewDefaultBookingService(reservationRepo.NewMemoryReservationRepo(seed...), facility.DefaultCatalog(), n, zap.NewNop(), loc)
	now := time.Date(2025, time.December, 1, 10, 0, 0, 0, loc)
	svc.Now = func() time.Time { return now }
	return svc, n
}

func requireBookingError(t *testing.T, err error, code string) *BookingError {
	t.Helper()
	var be *BookingError
	require.True(t, errors.As(err, &be), "expected BookingError, got %v", err)
	assert.Equal(t, code, be.Code)
	return be
}

func TestCreateBookingPricingAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		in         CreateBookingInput
		wantPrice  float64
		wantStatus models.ReservationStatus
	}{
		{name: "daytime padel free", in: CreateBookingInput{FacilityID: "padel", Date: "2025-12-02", StartTime: "17:00"}, wantPrice: 0, wantStatus: models.StatusConfirmed},
		{name: "evening padel lit", in: CreateBookingInput{FacilityID: "padel", Date: "2025-12-02", StartTime: "18:00"}, wantPrice: 30, wantStatus: models.StatusPending},
		{name: "evening futsal", in: CreateBookingInput{FacilityID: "futsal", Date: "2025-12-02", StartTime: "19:30"}, wantPrice: 30, wantStatus: models.StatusPending},
		{name: "evening half field", in: CreateBookingInput{FacilityID: "newfield-half-b", Date: "2025-12-02", StartTime: "20:00"}, wantPrice: 40, wantStatus: models.StatusPending},
		{name: "bike normal daily", in: CreateBookingInput{FacilityID: "bicycles", Date: "2025-12-02", StartTime: "10:00", BikeType: "normal", RentalPlan: "daily"}, wantPrice: 50, wantStatus: models.StatusPending},
		{name: "bike pro weekly", in: CreateBookingInput{FacilityID: "bicycles", Date: "2025-12-02", StartTime: "17:00", BikeType: "pro", RentalPlan: "weekly"}, wantPrice: 400, wantStatus: models.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, n := newTestService(t)

			res, err := svc.CreateBooking(context.Background(), student, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, res.TotalPrice)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, res.Start+60, res.End)
			assert.NotEmpty(t, res.ID)

			require.Len(t, n.events, 1)
			assert.Equal(t, models.EventBookingCreated, n.events[0].Type)
			assert.Equal(t, "n.bachiri@aui.ma", n.events[0].Email)
		})
	}
}

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateBookingInput
		code    string
		message string
	}{
		{name: "missing fields", in: CreateBookingInput{FacilityID: "padel"}, code: CodeInvalidInput, message: "facilityId, date and startTime are required"},
		{name: "unknown facility", in: CreateBookingInput{FacilityID: "pool", Date: "2025-12-02", StartTime: "10:00"}, code: CodeNotFound, message: "Facility not found"},
		{name: "bad date", in: CreateBookingInput{FacilityID: "padel", Date: "02/12/2025", StartTime: "10:00"}, code: CodeInvalidInput},
		{name: "bad time", in: CreateBookingInput{FacilityID: "padel", Date: "2025-12-02", StartTime: "5pm"}, code: CodeInvalidInput},
		{name: "field after 8pm", in: CreateBookingInput{FacilityID: "futsal", Date: "2025-12-02", StartTime: "20:30"}, code: CodeInvalidInput, message: "Last booking time for this field is 8pm."},
		{name: "bike after 5pm", in: CreateBookingInput{FacilityID: "bicycles", Date: "2025-12-02", StartTime: "17:30", BikeType: "normal", RentalPlan: "2h"}, code: CodeInvalidInput, message: "Last booking time for bicycles is 5pm."},
		{name: "bike options missing", in: CreateBookingInput{FacilityID: "bicycles", Date: "2025-12-02", StartTime: "10:00"}, code: CodeInvalidInput, message: "bikeType and rentalPlan are required for bicycle bookings."},
		{name: "bike type unknown", in: CreateBookingInput{FacilityID: "bicycles", Date: "2025-12-02", StartTime: "10:00", BikeType: "tandem", RentalPlan: "2h"}, code: CodeInvalidInput, message: "Invalid bikeType."},
		{name: "crosses midnight", in: CreateBookingInput{FacilityID: "padel", Date: "2025-12-02", StartTime: "23:30"}, code: CodeInvalidInput, message: "Bookings must end by midnight."},
		{name: "rental plan unknown", in: CreateBookingInput{FacilityID: "bicycles", Date: "2025-12-02", StartTime: "10:00", BikeType: "pro", RentalPlan: "monthly"}, code: CodeInvalidInput, message: "Invalid rentalPlan."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			_, err := svc.CreateBooking(context.Background(), student, tt.in)
			be := requireBookingError(t, err, tt.code)
			if tt.message != "" {
				assert.Equal(t, tt.message, be.Message)
			}
		})
	}
}

func TestCreateBookingLastHourOfDay(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.CreateBooking(context.Background(), student, CreateBookingInput{FacilityID: "padel", Date: "2025-12-02", StartTime: "23:00"})
	require.NoError(t, err)
	assert.Equal(t, models.MinutesPerDay, res.End)
	assert.Equal(t, "23:00", res.View().StartTime)
	assert.Equal(t, "00:00", res.View().EndTime)
}

func TestCreateBookingConflict(t *testing.T) {
	svc, n := newTestService(t, models.Reservation{
		ID: "r1", FacilityID: "padel", Date: "2025-12-02", Start: 16 * 60, End: 17 * 60, Status: models.StatusConfirmed,
	})

	_, err := svc.CreateBooking(context.Background(), student, CreateBookingInput{FacilityID: "padel", Date: "2025-12-02", StartTime: "16:30"})
	be := requireBookingError(t, err, CodeConflict)
	assert.Equal(t, "This time slot is already booked for this facility.", be.Message)
	assert.Empty(t, n.events)
}

func TestCreateBookingSurvivesNotifierFailure(t *testing.T) {
	svc, n := newTestService(t)
	n.err = errors.New("queue down")

	res, err := svc.CreateBooking(context.Background(), student, CreateBookingInput{FacilityID: "tennis-1", Date: "2025-12-02", StartTime: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, res.Status)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	owned := func(id, date string, start int) models.Reservation {
		return models.Reservation{ID: id, UserID: "u1", UserEmail: "n.bachiri@aui.ma", FacilityID: "padel", Date: date, Start: start, End: start + 60, Status: models.StatusConfirmed}
	}

	t.Run("owner well ahead", func(t *testing.T) {
		svc, n := newTestService(t, owned("r1", "2025-12-02", 600))
		res, err := svc.CancelBooking(ctx, student, "r1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, res.Status)
		require.Len(t, n.events, 1)
		assert.Equal(t, models.EventBookingCancelled, n.events[0].Type)
		assert.Equal(t, "Padel Court", n.events[0].FacilityName)
	})

	t.Run("student inside two hours", func(t *testing.T) {
		svc, _ := newTestService(t, owned("r1", "2025-12-01", 11*60+30))
		_, err := svc.CancelBooking(ctx, student, "r1")
		requireBookingError(t, err, CodeTooLate)
	})

	t.Run("admin inside two hours", func(t *testing.T) {
		svc, _ := newTestService(t, owned("r1", "2025-12-01", 11*60+30))
		_, err := svc.CancelBooking(ctx, models.Caller{ID: "admin", Role: models.RoleAdmin}, "r1")
		require.NoError(t, err)
	})

	t.Run("someone else", func(t *testing.T) {
		svc, _ := newTestService(t, owned("r1", "2025-12-02", 600))
		_, err := svc.CancelBooking(ctx, models.Caller{ID: "u2", Role: models.RoleStudent}, "r1")
		requireBookingError(t, err, CodeForbidden)
	})

	t.Run("unknown", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.CancelBooking(ctx, student, "nope")
		requireBookingError(t, err, CodeNotFound)
	})

	t.Run("twice", func(t *testing.T) {
		svc, _ := newTestService(t, owned("r1", "2025-12-02", 600))
		_, err := svc.CancelBooking(ctx, student, "r1")
		require.NoError(t, err)
		_, err = svc.CancelBooking(ctx, student, "r1")
		requireBookingError(t, err, CodeInvalidState)
	})
}

func TestCancelTellsOtherUsersTheSlotIsFree(t *testing.T) {
	seed := []models.Reservation{
		{ID: "r1", UserID: "u1", UserName: "Nabil", UserEmail: "n.bachiri@aui.ma", FacilityID: "padel", Date: "2025-12-02", Start: 600, End: 660, Status: models.StatusConfirmed},
		{ID: "r2", UserID: "u2", UserName: "Salma", UserEmail: "s.idrissi@aui.ma", FacilityID: "futsal", Date: "2025-12-03", Start: 600, End: 660, Status: models.StatusCancelled},
		{ID: "r3", UserID: "u3", FacilityID: "futsal", Date: "2025-12-03", Start: 720, End: 780, Status: models.StatusConfirmed},
	}
	svc, n := newTestService(t, seed...)

	_, err := svc.CancelBooking(context.Background(), student, "r1")
	require.NoError(t, err)

	require.Len(t, n.events, 2)
	assert.Equal(t, models.EventBookingCancelled, n.events[0].Type)
	assert.Equal(t, "n.bachiri@aui.ma", n.events[0].Email)

	freed := n.events[1]
	assert.Equal(t, models.EventSlotAvailable, freed.Type)
	assert.Equal(t, "u2", freed.UserID)
	assert.Equal(t, "s.idrissi@aui.ma", freed.Email)
	assert.Equal(t, "Padel Court", freed.FacilityName)
	assert.Equal(t, "10:00", freed.StartTime)
}

func TestConfirmAndDecline(t *testing.T) {
	ctx := context.Background()
	pending := models.Reservation{ID: "r1", UserID: "u1", FacilityID: "bicycles", Date: "2025-12-02", Start: 600, End: 660, Status: models.StatusPending}

	svc, n := newTestService(t, pending)
	list, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	res, err := svc.ConfirmBooking(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, res.Status)
	assert.Equal(t, models.EventBookingConfirmed, n.events[0].Type)

	_, err = svc.DeclineBooking(ctx, "r1")
	requireBookingError(t, err, CodeInvalidState)

	svc, _ = newTestService(t, pending)
	res, err = svc.DeclineBooking(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, res.Status)
}

func TestListUpcoming(t *testing.T) {
	svc, _ := newTestService(t,
		models.Reservation{ID: "old", UserID: "u1", FacilityID: "padel", Date: "2025-11-20", Start: 600, End: 660, Status: models.StatusConfirmed},
		models.Reservation{ID: "next", UserID: "u1", FacilityID: "padel", Date: "2025-12-05", Start: 600, End: 660, Status: models.StatusConfirmed},
		models.Reservation{ID: "other", UserID: "u2", FacilityID: "padel", Date: "2025-12-05", Start: 700, End: 760, Status: models.StatusConfirmed},
	)

	got, err := svc.ListUpcoming(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "next", got[0].ID)
}
