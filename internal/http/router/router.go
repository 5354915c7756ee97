package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/config"
	"github.com/technet-isp/backoffice-api/internal/database"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/http/handler"
	"github.com/technet-isp/backoffice-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/technet-isp/backoffice-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	dashboardHandler *handler.DashboardHandler
	authHandler      *handler.AuthHandler
	companyHandler   *handler.CompanyHandler
	deviceHandler    *handler.DeviceHandler
	customerHandler  *handler.CustomerHandler
	employeeHandler  *handler.EmployeeHandler
	billingHandler   *handler.BillingHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	dashboardHandler *handler.DashboardHandler,
	authHandler *handler.AuthHandler,
	companyHandler *handler.CompanyHandler,
	deviceHandler *handler.DeviceHandler,
	customerHandler *handler.CustomerHandler,
	employeeHandler *handler.EmployeeHandler,
	billingHandler *handler.BillingHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		dashboardHandler: dashboardHandler,
		authHandler:      authHandler,
		companyHandler:   companyHandler,
		deviceHandler:    deviceHandler,
		customerHandler:  customerHandler,
		employeeHandler:  employeeHandler,
		billingHandler:   billingHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Basic liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database readiness probe with pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Public health check with timestamp
	r.Get("/health-check", rt.dashboardHandler.HealthCheck)

	// Dashboard and monitoring
	r.Group(func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Get("/isp", rt.dashboardHandler.Dashboard)
		r.Post("/isp", rt.dashboardHandler.Monitor)
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Destructive operations on tenant data need an admin role
			requireAdmin := rt.authMiddleware.RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Companies; creating and deleting tenants is reserved for
			// super admins
			r.Route("/companies", func(r chi.Router) {
				r.Get("/", rt.companyHandler.List)
				r.With(rt.authMiddleware.RequireSuperAdmin).Post("/", rt.companyHandler.Create)
				r.Get("/{id}", rt.companyHandler.GetByID)
				r.Put("/{id}", rt.companyHandler.Update)
				r.With(rt.authMiddleware.RequireSuperAdmin).Delete("/{id}", rt.companyHandler.Delete)
				r.Get("/{id}/topology", rt.dashboardHandler.Topology)
			})

			// Devices
			r.Route("/devices", func(r chi.Router) {
				r.Get("/", rt.deviceHandler.List)
				r.Post("/", rt.deviceHandler.Create)
				r.Get("/{id}", rt.deviceHandler.GetByID)
				r.Put("/{id}", rt.deviceHandler.Update)
				r.With(requireAdmin).Delete("/{id}", rt.deviceHandler.Delete)
				r.Post("/{id}/monitor", rt.deviceHandler.Monitor)
			})

			// Customers
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Post("/", rt.customerHandler.Create)
				r.Get("/{id}", rt.customerHandler.GetByID)
				r.Put("/{id}", rt.customerHandler.Update)
				r.With(requireAdmin).Delete("/{id}", rt.customerHandler.Delete)
			})

			// Employees
			r.Route("/employees", func(r chi.Router) {
				r.Get("/", rt.employeeHandler.List)
				r.Post("/", rt.employeeHandler.Create)
				r.Get("/{id}", rt.employeeHandler.GetByID)
				r.Put("/{id}", rt.employeeHandler.Update)
				r.With(requireAdmin).Delete("/{id}", rt.employeeHandler.Delete)
			})

			// Billings
			r.Route("/billings", func(r chi.Router) {
				r.Get("/", rt.billingHandler.List)
				r.Post("/", rt.billingHandler.Create)
				r.Get("/{id}", rt.billingHandler.GetByID)
				r.Patch("/{id}/status", rt.billingHandler.UpdateStatus)
				r.With(requireAdmin).Delete("/{id}", rt.billingHandler.Delete)
			})
		})
	})

	return r
}
