package ai

import (
	"context"
	"time"

	"courtconnect/models"
	"courtconnect/services/availability"
	"courtconnect/services/booking"
	"courtconnect/services/facility"
	"courtconnect/services/temporal"
	"courtconnect/services/weather"
	"courtconnect/utils"

	"go.uber.org/zap"
)

// AssistantService turns one chat message into one reply.
type AssistantService interface {
	Reply(ctx context.Context, caller models.Caller, message string) (string, error)
}

// SlotChecker is the availability view the assistant needs.
type SlotChecker interface {
	Check(ctx context.Context, facilityID, date, startTime string) (availability.CheckResult, error)
	DaySummary(ctx context.Context, facilityID, date string) (availability.Summary, error)
}

// BookingInvoker makes one booking attempt.
type BookingInvoker interface {
	Invoke(ctx context.Context, req booking.Request) booking.Outcome
}

// UpcomingLister feeds the caller's own bookings into the model context.
type UpcomingLister interface {
	ListUpcoming(ctx context.Context, caller models.Caller) ([]models.Reservation, error)
}

// AssistantDeps wires the assistant. Weather, Generator, Bookings and Metrics are optional.
type AssistantDeps struct {
	Catalog          *facility.Catalog
	Resolver         *facility.Resolver
	Extractor        *temporal.Extractor
	Memory           ContextStore
	Slots            SlotChecker
	Invoker          BookingInvoker
	Bookings         UpcomingLister
	Weather          weather.Forecaster
	Generator        Generator
	GeneratorTimeout time.Duration
	Metrics          *utils.Metrics
	Logger           *zap.Logger
}

// DefaultAssistantService is the rule-based dialogue policy.
type DefaultAssistantService struct {
	deps AssistantDeps
}

func NewDefaultAssistantService(deps AssistantDeps) *DefaultAssistantService {
	if deps.Resolver == nil {
		deps.Resolver = facility.NewResolver(deps.Catalog)
	}
	if deps.Extractor == nil {
		deps.Extractor = temporal.NewExtractor(nil, nil)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &DefaultAssistantService{deps: deps}
}
