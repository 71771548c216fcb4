// File: utils/constants.go
package utils

// Gin context keys shared by middleware and handlers.
const (
	CallerKey    = "caller"
	LoggerKey    = "logger"
	RequestIDKey = "requestID"
)

// Date and clock layouts used across the API.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)
