package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/payhub-id/payment-service/internal/application"
	"github.com/payhub-id/payment-service/internal/domain/entity"
	"github.com/payhub-id/payment-service/internal/interface/middleware"
	"github.com/payhub-id/payment-service/pkg/response"
	"github.com/payhub-id/payment-service/pkg/validation"
)

type AuthHandler struct {
	Svc    *app.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *app.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// userView is the sanitized user shape returned by every endpoint. The
// password hash never leaves the service.
func userView(u *entity.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"email":           u.Email,
		"name":            u.Name,
		"role":            u.Role,
		"is_active":       u.IsActive,
		"balance":         u.Balance,
		"profile_picture": u.ProfilePicture,
		"created_at":      u.CreatedAt,
		"updated_at":      u.UpdatedAt,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidEmail):
			response.Error[any](c, http.StatusBadRequest, "invalid email address", nil)
		case errors.Is(err, app.ErrEmailTaken):
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, userView(u), "account created", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, expiresAt, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAccountDeactivated):
			response.Error[any](c, http.StatusUnauthorized, "account deactivated", nil)
		case errors.Is(err, app.ErrInvalidCredentials):
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  userView(u),
	}, "login successful", map[string]any{"expires_at": expiresAt})
}

// Me returns the authenticated account. The auth middleware already
// loaded the fresh entity, so no second lookup is needed.
func (h *AuthHandler) Me(c *gin.Context) {
	v, ok := c.Get(middleware.CtxUser)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	u, ok := v.(*entity.User)
	if !ok {
		response.Error[any](c, http.StatusInternalServerError, "Authentication failed", nil)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "current user", nil)
}
