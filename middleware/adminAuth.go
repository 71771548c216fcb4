package middleware

import (
	"net/http"

	"courtconnect/models"
	"courtconnect/utils"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware lets ADMIN and SUPERADMIN callers through. It must run after JWTAuthUserMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(utils.CallerKey)
		caller, ok := v.(models.Caller)
		if !exists || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		if !caller.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized admin access"})
			return
		}
		c.Next()
	}
}
