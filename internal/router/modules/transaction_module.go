package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/payhub-id/payment-service/internal/container"
	"github.com/payhub-id/payment-service/internal/domain/repository"
	handlers "github.com/payhub-id/payment-service/internal/interface/http"
	"github.com/payhub-id/payment-service/internal/interface/middleware"
	"github.com/payhub-id/payment-service/pkg/helpers"
)

// TransactionModule wires the transfer routes.
// Protected: GET /api/transactions, POST /api/transactions
type TransactionModule struct {
	Handler *handlers.TransactionHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewTransactionModule(h *handlers.TransactionHandler, users repository.UserRepository, jwt *helpers.JWTManager) *TransactionModule {
	return &TransactionModule{Handler: h, Users: users, JWT: jwt}
}

func (m *TransactionModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	// Transfers get a tighter per-user limit than reads
	createLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/transactions", m.Handler.List)
		auth.POST("/transactions", createLimiter, m.Handler.Create)
	}
}
