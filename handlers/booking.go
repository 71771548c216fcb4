package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"courtconnect/models"
	"courtconnect/services/availability"
	"courtconnect/services/booking"
	"courtconnect/services/facility"
	"courtconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DaySummarizer lists a facility's booked ranges and admin windows for one date.
type DaySummarizer interface {
	DaySummary(ctx context.Context, facilityID, date string) (availability.Summary, error)
}

// BookingHandler serves the facility and reservation REST surface.
type BookingHandler struct {
	Service booking.BookingService
	Catalog *facility.Catalog
	Slots   DaySummarizer
}

func NewBookingHandler(service booking.BookingService, catalog *facility.Catalog, slots DaySummarizer) *BookingHandler {
	return &BookingHandler{Service: service, Catalog: catalog, Slots: slots}
}

var bookingErrorStatus = map[string]int{
	booking.CodeInvalidInput: http.StatusBadRequest,
	booking.CodeNotFound:     http.StatusNotFound,
	booking.CodeConflict:     http.StatusConflict,
	booking.CodeForbidden:    http.StatusForbidden,
	booking.CodeTooLate:      http.StatusBadRequest,
	booking.CodeInvalidState: http.StatusBadRequest,
}

// respondBookingError maps a BookingError to its status and hides anything else behind a 500.
func respondBookingError(c *gin.Context, err error, fallback string) {
	var be *booking.BookingError
	if errors.As(err, &be) {
		status, ok := bookingErrorStatus[be.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		utils.JSONError(c, status, be.Message)
		return
	}
	getLogger(c).Error(fallback, zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, fallback)
}

func views(in []models.Reservation) []models.ReservationView {
	out := make([]models.ReservationView, 0, len(in))
	for _, r := range in {
		out = append(out, r.View())
	}
	return out
}

type rangeView struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func rangeViews(in []models.TimeRange) []rangeView {
	out := make([]rangeView, 0, len(in))
	for _, r := range in {
		out = append(out, rangeView{StartTime: models.FormatClock(r.Start), EndTime: models.FormatClock(r.End)})
	}
	return out
}

func (h *BookingHandler) ListFacilitiesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"facilities": h.Catalog.All()})
}

func (h *BookingHandler) AvailabilityHandler(c *gin.Context) {
	fac, ok := h.Catalog.ByID(c.Param("id"))
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Facility not found")
		return
	}
	date := c.Query("date")
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	summary, err := h.Slots.DaySummary(c.Request.Context(), fac.ID, date)
	if err != nil {
		getLogger(c).Error("Failed to load availability", zap.String("facilityId", fac.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facilityId": fac.ID,
		"date":       date,
		"slots":      rangeViews(summary.Booked),
		"windows":    rangeViews(summary.Windows),
	})
}

func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	caller, ok := getCaller(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in booking.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "facilityId, date and startTime are required")
		return
	}

	res, err := h.Service.CreateBooking(c.Request.Context(), caller, in)
	if err != nil {
		respondBookingError(c, err, "Failed to create booking")
		return
	}

	getLogger(c).Info("Booking created",
		zap.String("reservationId", res.ID),
		zap.String("facilityId", res.FacilityID),
		zap.String("status", string(res.Status)),
	)
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created", "booking": res.View()})
}

func (h *BookingHandler) MyBookingsHandler(c *gin.Context) {
	caller, ok := getCaller(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	list, err := h.Service.ListUpcoming(c.Request.Context(), caller)
	if err != nil {
		respondBookingError(c, err, "Failed to load bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": views(list)})
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	caller, ok := getCaller(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := h.Service.CancelBooking(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondBookingError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "booking": res.View()})
}

func (h *BookingHandler) PendingBookingsHandler(c *gin.Context) {
	list, err := h.Service.ListPending(c.Request.Context())
	if err != nil {
		respondBookingError(c, err, "Failed to load pending bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": views(list)})
}

func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	res, err := h.Service.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err, "Failed to confirm booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking confirmed", "booking": res.View()})
}

func (h *BookingHandler) DeclineBookingHandler(c *gin.Context) {
	res, err := h.Service.DeclineBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err, "Failed to decline booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking declined", "booking": res.View()})
}
