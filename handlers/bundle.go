package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Assistant endpoints
	ChatHandler       gin.HandlerFunc
	TranscribeHandler gin.HandlerFunc

	// Facility endpoints
	ListFacilitiesHandler gin.HandlerFunc
	AvailabilityHandler   gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler gin.HandlerFunc
	MyBookingsHandler    gin.HandlerFunc
	CancelBookingHandler gin.HandlerFunc

	// Admin endpoints
	PendingBookingsHandler gin.HandlerFunc
	ConfirmBookingHandler  gin.HandlerFunc
	DeclineBookingHandler  gin.HandlerFunc
}

// NewHandlerBundle exposes the methods of each handler as gin funcs.
func NewHandlerBundle(assistant *AssistantHandler, stt *TranscriptionHandler, bookings *BookingHandler) *HandlerBundle {
	return &HandlerBundle{
		ChatHandler:       assistant.ChatHandler,
		TranscribeHandler: stt.TranscribeHandler,

		ListFacilitiesHandler: bookings.ListFacilitiesHandler,
		AvailabilityHandler:   bookings.AvailabilityHandler,

		CreateBookingHandler: bookings.CreateBookingHandler,
		MyBookingsHandler:    bookings.MyBookingsHandler,
		CancelBookingHandler: bookings.CancelBookingHandler,

		PendingBookingsHandler: bookings.PendingBookingsHandler,
		ConfirmBookingHandler:  bookings.ConfirmBookingHandler,
		DeclineBookingHandler:  bookings.DeclineBookingHandler,
	}
}
