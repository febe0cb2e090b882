package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payhub-id/payment-service/internal/domain/entity"
	"github.com/payhub-id/payment-service/pkg/response"
)

// RequireRole gates a route group to the given roles. It must run after
// Auth, which stores the caller's role in the context.
func RequireRole(allowed ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.Role(c.GetString(CtxUserRole))
		if !role.In(allowed...) {
			response.Abort(c, http.StatusForbidden, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}
