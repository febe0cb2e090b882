package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/payhub-id/payment-service/internal/container"
	"github.com/payhub-id/payment-service/internal/domain/entity"
	"github.com/payhub-id/payment-service/internal/domain/repository"
	handlers "github.com/payhub-id/payment-service/internal/interface/http"
	"github.com/payhub-id/payment-service/internal/interface/middleware"
	"github.com/payhub-id/payment-service/pkg/helpers"
)

// AdminModule wires the administration routes.
// ADMIN and SUPER_ADMIN: GET /api/users, PATCH /api/users/:id/active,
// GET /api/users/search
// SUPER_ADMIN only: GET /api/admin/stats, GET /api/admin/export,
// POST /api/admin/create, DELETE /api/admin/:id
type AdminModule struct {
	Admin *handlers.AdminHandler
	User  *handlers.UserHandler
	Users repository.UserRepository
	JWT   *helpers.JWTManager
}

func NewAdminModule(admin *handlers.AdminHandler, user *handlers.UserHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Admin: admin, User: user, Users: users, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/")
	admin.Use(middleware.Auth(m.Users, m.JWT))
	admin.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin))
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		admin.GET("/users", m.Admin.ListUsers)
		admin.PATCH("/users/:id/active", m.Admin.SetActive)
		admin.GET("/users/search", m.User.Search)
	}

	super := admin.Group("/")
	super.Use(middleware.RequireRole(entity.RoleSuperAdmin))
	{
		super.GET("/admin/stats", m.Admin.Stats)
		super.GET("/admin/export", m.Admin.Export)
		super.POST("/admin/create", m.Admin.CreateAdmin)
		super.DELETE("/admin/:id", m.Admin.RemoveAdmin)
	}
}
