package routes

import (
	"net/http"
	"time"

	"courtconnect/handlers"
	"courtconnect/middleware"
	"courtconnect/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAssistantRoutes registers the chat and transcription endpoints.
func RegisterAssistantRoutes(r *gin.Engine, hb *handlers.HandlerBundle, secret string) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.JWTAuthUserMiddleware(secret))
		api.POST("", hb.ChatHandler)
		api.POST("/transcribe", hb.TranscribeHandler)
	}
}

// RegisterFacilityRoutes registers the public catalog endpoints.
func RegisterFacilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/facilities")
	{
		api.GET("", hb.ListFacilitiesHandler)
		api.GET("/:id/availability", hb.AvailabilityHandler)
	}
}

// RegisterBookingRoutes sets up the reservation endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, secret string) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthUserMiddleware(secret))
		bookingGroup.POST("", hb.CreateBookingHandler)
		bookingGroup.GET("/mine", hb.MyBookingsHandler)
		bookingGroup.DELETE("/:id", hb.CancelBookingHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin approval of pending bookings.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, secret string) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthUserMiddleware(secret), middleware.AdminOnlyMiddleware())
		adminGroup.GET("/bookings/pending", hb.PendingBookingsHandler)
		adminGroup.POST("/bookings/:id/confirm", hb.ConfirmBookingHandler)
		adminGroup.POST("/bookings/:id/decline", hb.DeclineBookingHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm CourtConnect", "services": utils.GetHealthStatus()})
	})
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine, metrics *utils.Metrics) {
	if metrics == nil {
		return
	}
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, metrics *utils.Metrics, jwtSecret string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterMetricsRoute(r, metrics)
	RegisterFacilityRoutes(r, hb)
	RegisterAssistantRoutes(r, hb, jwtSecret)
	RegisterBookingRoutes(r, hb, jwtSecret)
	RegisterAdminRoutes(r, hb, jwtSecret)
}
