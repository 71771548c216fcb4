package handlers

import (
	"courtconnect/models"
	"courtconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger from the Gin context or falls back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(utils.LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// getCaller returns the identity set by the JWT middleware.
func getCaller(c *gin.Context) (models.Caller, bool) {
	v, exists := c.Get(utils.CallerKey)
	if !exists {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok && caller.ID != ""
}
