package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"kodbank/internal/config"
	"kodbank/internal/handlers"
	"kodbank/internal/middleware"
	"kodbank/internal/repositories"
	"kodbank/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const bodyLimit = "1M"

// Server owns the HTTP router and the background workers behind it
type Server struct {
	cfg         *config.Config
	echo        *echo.Echo
	registry    *prometheus.Registry
	dispatcher  *services.NotificationDispatcher
	rateLimiter *middleware.IPRateLimiter
	logger      *slog.Logger
}

// New wires repositories, services and handlers over db
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewPrometheusMetrics(registry)

	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	auditLogger := services.NewAuditLogger(logger)
	auditService := services.NewAuditService(auditRepo, logger)
	passwordService := services.NewPasswordService(&cfg.Security)
	tokenService := services.NewTokenService(&cfg.JWT)

	dispatcher := services.NewNotificationDispatcher(
		&cfg.Notification,
		services.NewMailSender(&cfg.Notification, logger),
		services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig()),
		auditLogger,
		metrics,
		logger,
	)

	locker := services.NewAccountLocker()
	accountService := services.NewAccountService(accountRepo, userRepo, locker, dispatcher, auditService, auditLogger, metrics, logger)
	transactionService := services.NewTransactionService(accountService, transactionRepo, logger)
	adminService := services.NewAdminService(userRepo, accountRepo, transactionRepo, locker, auditService, auditLogger, metrics, logger)
	authService := services.NewAuthService(userRepo, passwordService, tokenService, auditService, auditLogger, metrics, logger)

	s := &Server{
		cfg:         cfg,
		echo:        echo.New(),
		registry:    registry,
		dispatcher:  dispatcher,
		rateLimiter: middleware.NewIPRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst),
		logger:      logger,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = handlers.NewValidator()
	s.echo.HTTPErrorHandler = middleware.NewHTTPErrorHandler(registry)
	s.echo.Server.ReadTimeout = cfg.Server.ReadTimeout
	s.echo.Server.WriteTimeout = cfg.Server.WriteTimeout

	s.echo.Use(
		middleware.RequestID(),
		middleware.PanicRecovery(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.Server.CORSAllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, middleware.TraceIDHeader},
			ExposeHeaders:    []string{middleware.TraceIDHeader},
			AllowCredentials: true,
		}),
		echomw.BodyLimit(bodyLimit),
		middleware.SecurityHeaders(),
	)

	s.registerRoutes(routeDeps{
		health:       handlers.NewHealthCheckHandler(db),
		auth:         handlers.NewAuthHandler(authService),
		account:      handlers.NewAccountHandler(accountService),
		transaction:  handlers.NewTransactionHandler(transactionService),
		admin:        handlers.NewAdminHandler(adminService),
		tokenService: tokenService,
		userRepo:     userRepo,
	})

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// StartWorkers launches the notification workers and the rate limiter janitor.
// Both stop when ctx is cancelled.
func (s *Server) StartWorkers(ctx context.Context) {
	s.dispatcher.Start(ctx)
	go s.rateLimiter.Run(ctx)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests and
// waits for the notification workers.
func (s *Server) Run(ctx context.Context) error {
	s.StartWorkers(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "address", s.cfg.Server.Address())
		if err := s.echo.Start(s.cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	s.dispatcher.Wait()
	s.logger.Info("Server stopped")
	return nil
}
