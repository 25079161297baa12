package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zreport/backend/internal/domain/identity"
	"github.com/zreport/backend/internal/interfaces/http/dto"
)

// RequireAction lets the request through only when the token's role may
// perform action. It must run after JWT authentication.
func RequireAction(action identity.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized,
				"Authentication required",
				GetRequestID(c),
			))
			return
		}

		role, err := identity.ParseRole(claims.Role)
		if err != nil || !identity.Can(role, action) {
			handlePermissionDenied(c)
			return
		}
		c.Next()
	}
}

func handlePermissionDenied(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden,
		"Access denied: insufficient permissions",
		GetRequestID(c),
	))
}
