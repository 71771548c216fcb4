package middleware

import (
	"net/http"
	"strings"

	"courtconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthUserMiddleware verifies the bearer token and stores the caller in the context.
func JWTAuthUserMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		caller, err := utils.ExtractCallerFromToken(tokenString, secret)
		if err != nil {
			utils.GetLogger().Debug("Rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(utils.CallerKey, caller)
		if l, ok := c.Get(utils.LoggerKey); ok {
			if logger, ok := l.(*zap.Logger); ok {
				c.Set(utils.LoggerKey, logger.With(zap.String("userId", caller.ID)))
			}
		}
		c.Next()
	}
}
