package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/technet-isp/backoffice-api/docs"
	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/config"
	"github.com/technet-isp/backoffice-api/internal/database"
	"github.com/technet-isp/backoffice-api/internal/http/handler"
	"github.com/technet-isp/backoffice-api/internal/http/middleware"
	"github.com/technet-isp/backoffice-api/internal/http/router"
	"github.com/technet-isp/backoffice-api/internal/jobs"
	"github.com/technet-isp/backoffice-api/internal/logger"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"github.com/technet-isp/backoffice-api/internal/service"
	"go.uber.org/zap"
)

// @title TechNet ISP Back-Office API
// @version 1.0
// @description Multi-tenant back-office API for ISP companies, customers, devices, employees and billing

// @contact.name API Support
// @contact.email support@technet-isp.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Configure Swagger host based on environment
	if cfg.App.Environment == "development" || cfg.App.Environment == "local" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	billingRepo := repository.NewBillingRepository(db)

	// Initialize services
	tokenManager := auth.NewTokenManager(&cfg.Auth)
	authService := service.NewAuthService(userRepo, tokenManager, log)
	companyService := service.NewCompanyService(companyRepo, log)
	deviceService := service.NewDeviceService(deviceRepo, log)
	customerService := service.NewCustomerService(customerRepo, log)
	employeeService := service.NewEmployeeService(employeeRepo, log)
	billingService := service.NewBillingService(billingRepo, customerRepo, log)
	dashboardService := service.NewDashboardService(userRepo, companyRepo, deviceRepo, customerRepo, employeeRepo, billingRepo, log)
	monitoringService := service.NewMonitoringService(deviceRepo, userRepo, companyRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenManager, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	dashboardHandler := handler.NewDashboardHandler(dashboardService, monitoringService, log)
	authHandler := handler.NewAuthHandler(authService, log)
	companyHandler := handler.NewCompanyHandler(companyService, log)
	deviceHandler := handler.NewDeviceHandler(deviceService, monitoringService, log)
	customerHandler := handler.NewCustomerHandler(customerService, log)
	employeeHandler := handler.NewEmployeeHandler(employeeService, log)
	billingHandler := handler.NewBillingHandler(billingService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		dashboardHandler,
		authHandler,
		companyHandler,
		deviceHandler,
		customerHandler,
		employeeHandler,
		billingHandler,
	)

	// Initialize and start scheduler for the periodic monitoring sweep
	var scheduler *jobs.Scheduler
	if cfg.Monitoring.SweepEnabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterMonitorSweepJob(
			scheduler,
			monitoringService,
			log,
			cfg.Monitoring.SweepSchedule,
			jobs.DefaultSweepTimeout,
		); err != nil {
			log.Error("Failed to register monitoring sweep job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with monitoring sweep job",
				zap.String("cron_expr", cfg.Monitoring.SweepSchedule),
			)
		}
	} else {
		log.Info("Periodic monitoring sweep disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
