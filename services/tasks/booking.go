package tasks

import (
	"encoding/json"

	"courtconnect/models"

	"github.com/hibiken/asynq"
)

// NewBookingEventTask wraps a booking event as an asynq task typed by the event.
func NewBookingEventTask(event models.BookingEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(string(event.Type), b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}

// ParseBookingEvent decodes a task payload.
func ParseBookingEvent(task *asynq.Task) (models.BookingEvent, error) {
	var event models.BookingEvent
	err := json.Unmarshal(task.Payload(), &event)
	return event, err
}
