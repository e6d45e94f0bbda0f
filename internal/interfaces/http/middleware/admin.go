package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rently/backend/internal/interfaces/http/dto"
)

// RequireAdmin restricts a route group to principals holding the admin role.
// It must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", requestID))
			return
		}
		if !principal.IsAdmin() {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Admin role required", requestID))
			return
		}
		c.Next()
	}
}
