package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/payhub-id/payment-service/pkg/helpers"
	"github.com/payhub-id/payment-service/pkg/response"

	"github.com/payhub-id/payment-service/internal/domain/repository"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
	CtxUser      = "user"
)

// Auth validates the Authorization bearer token and loads the current
// account. The account is re-checked on every request so a deactivated
// user is locked out immediately, not at token expiry.
// It sets userID, userEmail, userRole and the full user entity in the
// Gin context on success.
func Auth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "Authentication required", nil)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.Abort(c, http.StatusUnauthorized, "User not found or inactive", nil)
				return
			}
			response.Abort(c, http.StatusInternalServerError, "Authentication failed", nil)
			return
		}
		if !u.IsActive {
			response.Abort(c, http.StatusUnauthorized, "User not found or inactive", nil)
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUserEmail, u.Email)
		c.Set(CtxUserRole, u.Role.String())
		c.Set(CtxUser, u)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header. Browser
// clients that lost their stored token send the literal strings "null"
// or "undefined"; those are treated as absent.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	token := strings.TrimSpace(parts[1])
	if token == "" || token == "null" || token == "undefined" {
		return ""
	}
	return token
}
