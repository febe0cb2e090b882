package router

import (
	app "github.com/payhub-id/payment-service/internal/application"
	"github.com/payhub-id/payment-service/internal/container"
	"github.com/payhub-id/payment-service/internal/domain/repository"
	pginfra "github.com/payhub-id/payment-service/internal/infrastructure/postgres"
	handlers "github.com/payhub-id/payment-service/internal/interface/http"
	"github.com/payhub-id/payment-service/internal/router/modules"
)

type moduleDeps struct {
	Users       repository.UserRepository
	Txns        repository.TransactionRepository
	UserSvc     *app.UserService
	TransferSvc *app.TransferService
	AdminSvc    *app.AdminService

	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Transaction *handlers.TransactionHandler
	Admin       *handlers.AdminHandler
}

func buildDeps() moduleDeps {
	users := pginfra.NewUserRepository(container.GetPGPool())
	txns := pginfra.NewTransactionRepository(container.GetPGPool())

	cfg := container.GetConfig()
	logger := container.GetLogger()

	userSvc := app.NewUserService(
		users,
		container.GetJWT(),
		container.GetRabbitPub(),
		container.GetGCS(),
		container.GetES(),
		logger,
		cfg,
	)
	transferSvc := app.NewTransferService(users, txns, container.GetRabbitPub(), logger, cfg)
	adminSvc := app.NewAdminService(users, txns, container.GetRedis(), container.GetRabbitPub(), logger, cfg)

	return moduleDeps{
		Users:       users,
		Txns:        txns,
		UserSvc:     userSvc,
		TransferSvc: transferSvc,
		AdminSvc:    adminSvc,

		Auth:        handlers.NewAuthHandler(userSvc, logger),
		User:        handlers.NewUserHandler(userSvc, logger),
		Transaction: handlers.NewTransactionHandler(transferSvc, logger),
		Admin:       handlers.NewAdminHandler(adminSvc, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	d := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(d.Auth, d.Users, jwt))
	r.Add(modules.NewUserModule(d.User, d.Users, jwt))
	r.Add(modules.NewTransactionModule(d.Transaction, d.Users, jwt))
	r.Add(modules.NewAdminModule(d.Admin, d.User, d.Users, jwt))
	r.Add(modules.NewDebugModule())
}
