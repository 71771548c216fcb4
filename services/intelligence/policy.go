package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"courtconnect/models"
	"courtconnect/services/booking"
	"courtconnect/services/temporal"

	"go.uber.org/zap"
)

var (
	// Left word boundary only, so inflections ("hates", "violently") still match.
	bannedRE  = regexp.MustCompile(`\b(violen\w*|self[- ]?harm\w*|hat(e|es|ed|er|ers|ing|red|eful|efully)\b|harass\w*|terror\w*)`)
	rainRE    = regexp.MustCompile(`\b(rain|rains|rainy|raining|rainfall)\b`)
	bookingRE = regexp.MustCompile(`\b(book|reserv)`)
)

// Branch labels, also used as metric values.
const (
	branchBlocked       = "blocked"
	branchRain          = "rain"
	branchBooked        = "booked"
	branchConflict      = "conflict"
	branchRejected      = "rejected"
	branchFailed        = "failed"
	branchNeedTime      = "need_time"
	branchNeedDate      = "need_date"
	branchFacilityHours = "facility_hours"
	branchBookingPrompt = "booking_prompt"
	branchCanned        = "canned"
	branchModel         = "model"
	branchHelp          = "help"
)

const (
	bookingPromptReply = "I can book for you. Tell me the facility name, date (e.g., 2025-12-10 or say tomorrow), and time (e.g., 3 pm or 15h30)."
	modelEmptyReply    = "I'm here to help with bookings and availability."
)

// intent is one turn's resolution merged with the caller's pending context.
type intent struct {
	facility *models.Facility
	date     string
	time     string
	times    []string
	booking  bool
}

// Reply runs the safety filter, the rain check, slot resolution and the
// seven-way branch selection for one message.
func (s *DefaultAssistantService) Reply(ctx context.Context, caller models.Caller, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	lower := strings.ToLower(message)

	if bannedRE.MatchString(lower) {
		s.observe(branchBlocked)
		return "", ErrBlockedMessage
	}

	if rainRE.MatchString(lower) {
		if reply, ok := s.rainReply(ctx); ok {
			s.observe(branchRain)
			return reply, nil
		}
	}

	in := s.resolve(ctx, caller.ID, lower)

	switch {
	case in.facility != nil && in.date != "" && in.time != "":
		return s.book(ctx, caller, in), nil

	case in.facility != nil && in.date != "":
		s.remember(ctx, caller.ID, models.PendingContext{FacilityID: in.facility.ID, Date: in.date})
		summary := "Availability unknown right now."
		if sum, err := s.deps.Slots.DaySummary(ctx, in.facility.ID, in.date); err != nil {
			s.deps.Logger.Warn("day summary failed", zap.String("facilityId", in.facility.ID), zap.Error(err))
		} else {
			summary = sum.String()
		}
		s.observe(branchNeedTime)
		return fmt.Sprintf("%s on %s: %s Tell me a start time (e.g., 08:00 or 8 am) to book.", in.facility.Name, in.date, summary), nil

	case in.facility != nil && in.time != "":
		s.remember(ctx, caller.ID, models.PendingContext{FacilityID: in.facility.ID})
		s.observe(branchNeedDate)
		return fmt.Sprintf(`I can check %s at %s. Please provide a date (YYYY-MM-DD or say "today"/"tomorrow").`, in.facility.Name, in.time), nil

	case in.facility != nil:
		s.observe(branchFacilityHours)
		return fmt.Sprintf("%s: weekday hours %s, weekend %s. Tell me a date (e.g., 2025-12-12 or say tomorrow) and a time to check or book a slot.",
			in.facility.Name, orNA(in.facility.Hours.Weekday), orNA(in.facility.Hours.Weekend)), nil

	case in.booking:
		s.observe(branchBookingPrompt)
		return bookingPromptReply, nil
	}

	return s.fallback(ctx, caller, message)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// resolve reads facility, date and time from the message and fills gaps from
// the pending context. The facility span is blanked before time extraction so
// "tennis court 2" never yields 02:00.
func (s *DefaultAssistantService) resolve(ctx context.Context, userID, lower string) intent {
	in := intent{booking: bookingRE.MatchString(lower)}

	text := lower
	if m, ok := s.deps.Resolver.Resolve(lower); ok {
		f := m.Facility
		in.facility = &f
		text = temporal.Mask(lower, temporal.Span{Start: m.Start, End: m.End})
	}

	res := s.deps.Extractor.Extract(text)
	if res.Date != nil {
		in.date = res.Date.Date
	}
	in.time = res.Time
	if in.time == "" && len(res.Range) > 0 {
		in.time = res.Range[0]
	}
	if res.HasRange() {
		in.times = res.Range
	}

	pending := s.recall(ctx, userID)
	if pending != nil {
		if in.facility == nil {
			if f, ok := s.deps.Catalog.ByID(pending.FacilityID); ok {
				in.facility = &f
			}
		}
		if in.date == "" {
			in.date = pending.Date
		}
	}
	return in
}

// book checks the slot, then makes a single booking attempt.
func (s *DefaultAssistantService) book(ctx context.Context, caller models.Caller, in intent) string {
	name := in.facility.Name
	failed := fmt.Sprintf("%s at %s on %s looks available, but I couldn't book it. Please try manually.", name, in.time, in.date)

	check, err := s.deps.Slots.Check(ctx, in.facility.ID, in.date, in.time)
	if err != nil {
		s.deps.Logger.Error("availability check failed", zap.String("facilityId", in.facility.ID), zap.Error(err))
		s.observe(branchFailed)
		return failed
	}
	if check.Conflict != nil {
		s.observe(branchConflict)
		return fmt.Sprintf("%s is already booked at %s on %s. Try another time.", name, in.time, in.date)
	}

	out := s.deps.Invoker.Invoke(ctx, booking.Request{
		Caller:     caller,
		FacilityID: in.facility.ID,
		Date:       in.date,
		StartTime:  in.time,
	})
	var callErr error
	if out.Kind == booking.OutcomeFailed {
		callErr = out.Err
	}
	s.deps.Metrics.ObserveCall("booking", callErr)

	switch out.Kind {
	case booking.OutcomeBooked:
		s.forget(ctx, caller.ID)
		s.observe(branchBooked)
		reply := fmt.Sprintf("Booked %s on %s at %s. Status: %s.", name, in.date, in.time, out.Reservation.Status)
		if len(in.times) == 2 {
			reply += fmt.Sprintf(" (bookings are one hour: %s-%s)", out.Reservation.StartTime(), out.Reservation.EndTime())
		}
		return reply

	case booking.OutcomeRejected:
		s.observe(branchRejected)
		if out.Message != "" {
			return out.Message
		}
		window := ""
		if !check.InProvidedWindow {
			window = " (no admin slot constraints found)"
		}
		return fmt.Sprintf("%s at %s on %s is available%s but booking failed.", name, in.time, in.date, window)

	default:
		s.deps.Logger.Error("booking call failed", zap.String("facilityId", in.facility.ID), zap.Error(out.Err))
		s.observe(branchFailed)
		return failed
	}
}

// fallback answers everything that is not a booking conversation.
func (s *DefaultAssistantService) fallback(ctx context.Context, caller models.Caller, message string) (string, error) {
	canned, hasCanned := cannedReply(message, s.deps.Catalog)

	if s.deps.Generator == nil {
		if hasCanned {
			s.observe(branchCanned)
			return canned, nil
		}
		s.observe(branchHelp)
		return helpReply, nil
	}

	prompt, err := s.modelPrompt(ctx, caller, message)
	if err != nil {
		return "", err
	}

	if s.deps.GeneratorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deps.GeneratorTimeout)
		defer cancel()
	}
	reply, err := s.deps.Generator.Generate(ctx, prompt)
	s.deps.Metrics.ObserveCall("llm", err)
	if err != nil {
		s.deps.Logger.Error("remote model call failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}

	s.observe(branchModel)
	if strings.TrimSpace(reply) == "" {
		return modelEmptyReply, nil
	}
	return strings.TrimSpace(reply), nil
}

type facilityContext struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Type string `json:"type"`
}

type bookingContext struct {
	FacilityID string `json:"facilityId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
}

// modelPrompt bounds what the model sees to the catalog and the caller's own bookings.
func (s *DefaultAssistantService) modelPrompt(ctx context.Context, caller models.Caller, message string) (string, error) {
	facilities := []facilityContext{}
	for _, f := range s.deps.Catalog.All() {
		facilities = append(facilities, facilityContext{Name: f.Name, ID: f.ID, Type: string(f.Type)})
	}

	mine := []bookingContext{}
	if s.deps.Bookings != nil && caller.ID != "" {
		upcoming, err := s.deps.Bookings.ListUpcoming(ctx, caller)
		if err != nil {
			s.deps.Logger.Warn("could not load caller bookings for model context", zap.Error(err))
		}
		for _, r := range upcoming {
			mine = append(mine, bookingContext{FacilityID: r.FacilityID, Date: r.Date, StartTime: r.StartTime()})
		}
	}

	fj, err := json.Marshal(facilities)
	if err != nil {
		return "", fmt.Errorf("encode facility context: %w", err)
	}
	bj, err := json.Marshal(mine)
	if err != nil {
		return "", fmt.Errorf("encode booking context: %w", err)
	}
	return fmt.Sprintf("Context:\nFacilities: %s\nUser bookings: %s\n\nQuestion: %s", fj, bj, message), nil
}

// rainReply is false when the forecast is unavailable, so the message falls through.
func (s *DefaultAssistantService) rainReply(ctx context.Context) (string, bool) {
	if s.deps.Weather == nil {
		return "", false
	}
	forecast, err := s.deps.Weather.RainForecast(ctx)
	s.deps.Metrics.ObserveCall("weather", err)
	if err != nil {
		s.deps.Logger.Warn("rain forecast unavailable", zap.Error(err))
		return "", false
	}
	return forecast.Reply(), true
}

func (s *DefaultAssistantService) recall(ctx context.Context, userID string) *models.PendingContext {
	if userID == "" || s.deps.Memory == nil {
		return nil
	}
	slot, err := s.deps.Memory.Get(ctx, userID)
	if err != nil {
		s.deps.Logger.Warn("pending context read failed", zap.String("userId", userID), zap.Error(err))
		return nil
	}
	return slot
}

func (s *DefaultAssistantService) remember(ctx context.Context, userID string, slot models.PendingContext) {
	if userID == "" || s.deps.Memory == nil {
		return
	}
	if err := s.deps.Memory.Set(ctx, userID, slot); err != nil {
		s.deps.Logger.Warn("pending context write failed", zap.String("userId", userID), zap.Error(err))
	}
}

func (s *DefaultAssistantService) forget(ctx context.Context, userID string) {
	if userID == "" || s.deps.Memory == nil {
		return
	}
	if err := s.deps.Memory.Clear(ctx, userID); err != nil {
		s.deps.Logger.Warn("pending context clear failed", zap.String("userId", userID), zap.Error(err))
	}
}

func (s *DefaultAssistantService) observe(branch string) {
	s.deps.Metrics.ObserveBranch(branch)
}
