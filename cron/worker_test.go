package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"courtconnect/models"
	"courtconnect/services/notification"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct {
	sent []notification.Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, email notification.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func eventTask(t *testing.T, event models.BookingEvent) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return asynq.NewTask(string(event.Type), b)
}

func TestHandleBookingEventSendsEmail(t *testing.T) {
	mailer := &recordingMailer{}
	h := handleBookingEvent(mailer, zap.NewNop())

	err := h(context.Background(), eventTask(t, models.BookingEvent{
		Type:         models.EventBookingCancelled,
		Email:        "i.hajji@aui.ma",
		Username:     "Imane",
		FacilityName: "Tennis Court 1",
	}))
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "i.hajji@aui.ma", mailer.sent[0].To)
}

func TestHandleBookingEventSkipsBadPayload(t *testing.T) {
	h := handleBookingEvent(&recordingMailer{}, zap.NewNop())

	err := h(context.Background(), asynq.NewTask(string(models.EventBookingCreated), []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleBookingEventDropsUndeliverable(t *testing.T) {
	mailer := &recordingMailer{}
	h := handleBookingEvent(mailer, zap.NewNop())

	err := h(context.Background(), eventTask(t, models.BookingEvent{Type: models.EventBookingCreated}))
	assert.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestHandleBookingEventRetriesMailerFailure(t *testing.T) {
	h := handleBookingEvent(&recordingMailer{err: errors.New("smtp down")}, zap.NewNop())

	err := h(context.Background(), eventTask(t, models.BookingEvent{
		Type:  models.EventBookingConfirmed,
		Email: "a.admin@aui.ma",
	}))
	assert.ErrorContains(t, err, "smtp down")
}
