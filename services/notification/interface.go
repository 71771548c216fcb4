package notification

import (
	"context"
	"fmt"

	"courtconnect/models"
	"courtconnect/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier hands booking events to the delivery pipeline.
type Notifier interface {
	Notify(ctx context.Context, event models.BookingEvent) error
}

// QueueNotifier enqueues events on asynq for the worker to deliver.
type QueueNotifier struct {
	client *asynq.Client
}

func NewQueueNotifier(client *asynq.Client) *QueueNotifier {
	return &QueueNotifier{client: client}
}

func (n *QueueNotifier) Notify(ctx context.Context, event models.BookingEvent) error {
	task, opts, err := tasks.NewBookingEventTask(event)
	if err != nil {
		return fmt.Errorf("build %s task: %w", event.Type, err)
	}
	if _, err := n.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s task: %w", event.Type, err)
	}
	return nil
}

// LogNotifier only logs events. Used when notifications are disabled.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event models.BookingEvent) error {
	n.logger.Debug("booking event (notifications disabled)",
		zap.String("type", string(event.Type)),
		zap.String("reservationId", event.ReservationID),
	)
	return nil
}
