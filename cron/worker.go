package cron

import (
	"context"
	"fmt"
	"time"

	"courtconnect/config"
	"courtconnect/models"
	"courtconnect/services/notification"
	"courtconnect/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt returns the asynq connection settings.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewNotificationMux routes every booking event type to the mail handler.
func NewNotificationMux(mailer notification.Mailer, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	handler := handleBookingEvent(mailer, logger)
	for _, t := range []models.BookingEventType{
		models.EventBookingCreated,
		models.EventBookingCancelled,
		models.EventBookingConfirmed,
		models.EventBookingDeclined,
		models.EventSlotAvailable,
	} {
		mux.HandleFunc(string(t), handler)
	}
	return mux
}

// InitNotificationWorker runs the async worker in background.
func InitNotificationWorker(mailer notification.Mailer, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := NewNotificationMux(mailer, logger)

	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("notification worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("notification worker gave up; booking emails will stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleBookingEvent(mailer notification.Mailer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := tasks.ParseBookingEvent(task)
		if err != nil {
			logger.Error("invalid booking event payload", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		email, err := notification.RenderEmail(event)
		if err != nil {
			logger.Warn("booking event not deliverable", zap.String("reservationId", event.ReservationID), zap.Error(err))
			return nil
		}

		if err := mailer.Send(ctx, email); err != nil {
			logger.Error("failed to send booking email", zap.String("reservationId", event.ReservationID), zap.Error(err))
			return err
		}
		return nil
	}
}
