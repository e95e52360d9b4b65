package server

import (
	"kodbank/internal/handlers"
	"kodbank/internal/middleware"
	"kodbank/internal/repositories"
	"kodbank/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeDeps struct {
	health       *handlers.HealthCheckHandler
	auth         *handlers.AuthHandler
	account      *handlers.AccountHandler
	transaction  *handlers.TransactionHandler
	admin        *handlers.AdminHandler
	tokenService services.TokenServiceInterface
	userRepo     repositories.UserRepositoryInterface
}

func (s *Server) registerRoutes(d routeDeps) {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.echo.Group("/api", s.rateLimiter.Middleware())
	api.GET("/health", d.health.HealthCheck)

	requireAuth := middleware.RequireAuth(d.tokenService, d.userRepo)

	auth := api.Group("/auth")
	auth.POST("/register", d.auth.Register)
	auth.GET("/register", handlers.UsePost("register"))
	auth.POST("/login", d.auth.Login)
	auth.GET("/login", handlers.UsePost("login"))
	auth.GET("/me", d.auth.Me, requireAuth)
	auth.PUT("/profile", d.auth.UpdateProfile, requireAuth)

	accounts := api.Group("/accounts", requireAuth, middleware.RequireCustomer())
	accounts.POST("/create", d.account.CreateAccount)
	accounts.GET("/my-accounts", d.account.GetMyAccounts)
	accounts.POST("/deposit", d.account.Deposit)
	accounts.POST("/withdraw", d.account.Withdraw)
	accounts.POST("/transfer", d.account.Transfer)
	accounts.GET("/:id", d.account.GetAccount)

	transactions := api.Group("/transactions", requireAuth, middleware.RequireCustomer())
	transactions.GET("/:accountId", d.transaction.GetHistory)

	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	admin.GET("/customers", d.admin.ListCustomers)
	admin.GET("/accounts", d.admin.ListAccounts)
	admin.GET("/transactions", d.admin.ListTransactions)
	admin.GET("/analytics", d.admin.GetAnalytics)
	admin.PUT("/accounts/:id/freeze", d.admin.FreezeAccount)
	admin.PUT("/accounts/:id/unfreeze", d.admin.UnfreezeAccount)
	admin.GET("/accounts/:id/audit", d.admin.GetAccountAuditTrail)
}
