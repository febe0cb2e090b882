package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/payhub-id/payment-service/internal/application"
	"github.com/payhub-id/payment-service/internal/domain/entity"
	"github.com/payhub-id/payment-service/pkg/response"
	"github.com/payhub-id/payment-service/pkg/validation"
)

type AdminHandler struct {
	Svc    *app.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *app.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type createAdminRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=ADMIN SUPER_ADMIN"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	overviews, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("admin list users failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load users", nil)
		return
	}

	out := make([]gin.H, 0, len(overviews))
	for _, o := range overviews {
		v := userView(&o.User)
		v["sent_transactions"] = o.SentTransactions
		v["received_transactions"] = o.ReceivedTransactions
		v["sent_count"] = o.SentCount
		v["received_count"] = o.ReceivedCount
		out = append(out, v)
	}
	response.Success(c, http.StatusOK, out, "users", map[string]any{"count": len(out)})
}

func (h *AdminHandler) SetActive(c *gin.Context) {
	id := c.Param("id")
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.SetUserActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("set user active failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update user", nil)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user updated", nil)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("stats failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load stats", nil)
		return
	}
	response.Success(c, http.StatusOK, st, "system stats", nil)
}

// Export streams the full data export as a CSV attachment.
func (h *AdminHandler) Export(c *gin.Context) {
	data, err := h.Svc.ExportCSV(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("export failed")
		response.Error[any](c, http.StatusInternalServerError, "export failed", nil)
		return
	}
	filename := fmt.Sprintf("export-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.CreateAdmin(c.Request.Context(), req.Name, req.Email, entity.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidRole):
			response.Error[any](c, http.StatusBadRequest, "role must be ADMIN or SUPER_ADMIN", nil)
		case errors.Is(err, app.ErrEmailTaken):
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
		default:
			h.Logger.WithError(err).Error("create admin failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to create admin", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, userView(u), "admin created, credentials sent by email", nil)
}

func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.RemoveAdmin(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, app.ErrCannotRemoveSuperAdmin):
			response.Error[any](c, http.StatusForbidden, "cannot remove a super admin", nil)
		case errors.Is(err, app.ErrNotAnAdmin):
			response.Error[any](c, http.StatusBadRequest, "user is not an admin", nil)
		default:
			h.Logger.WithError(err).Error("remove admin failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to remove admin", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "admin demoted to user", nil)
}
