package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService  *service.DashboardService
	monitoringService *service.MonitoringService
	logger            *zap.Logger
}

func NewDashboardHandler(
	dashboardService *service.DashboardService,
	monitoringService *service.MonitoringService,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:  dashboardService,
		monitoringService: monitoringService,
		logger:            logger,
	}
}

// HealthCheck godoc
// @Summary Service health check
// @Description Lightweight liveness probe
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.HealthCheckResponse
// @Router /health-check [get]
func (h *DashboardHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.HealthCheckResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Dashboard godoc
// @Summary ISP dashboard
// @Description Aggregated dashboard payload for the authenticated user's company scope
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardData
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /isp [get]
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h.logger.Error("failed to build dashboard", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to build dashboard",
		})
		return
	}

	respondJSON(w, http.StatusOK, data)
}

// Monitor godoc
// @Summary Run device monitoring
// @Description Check every device in the authenticated user's scope and return updated results
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.MonitoringData
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /isp [post]
func (h *DashboardHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	data, err := h.monitoringService.RunMonitoring(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		h.logger.Error("failed to run monitoring", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to run monitoring",
		})
		return
	}

	respondJSON(w, http.StatusOK, data)
}

// Topology godoc
// @Summary Discover network topology
// @Description Build a simulated network map from one company's devices
// @Tags Dashboard
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Success 200 {object} domain.NetworkTopology
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /companies/{id}/topology [get]
func (h *DashboardHandler) Topology(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid company ID format",
		})
		return
	}

	topology, err := h.monitoringService.DiscoverTopology(r.Context(), companyID)
	if err != nil {
		h.logger.Error("failed to discover topology", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to discover topology",
		})
		return
	}

	respondJSON(w, http.StatusOK, topology)
}
