package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/service"
	"go.uber.org/zap"
)

type DeviceHandler struct {
	deviceService     *service.DeviceService
	monitoringService *service.MonitoringService
	logger            *zap.Logger
}

func NewDeviceHandler(
	deviceService *service.DeviceService,
	monitoringService *service.MonitoringService,
	logger *zap.Logger,
) *DeviceHandler {
	return &DeviceHandler{
		deviceService:     deviceService,
		monitoringService: monitoringService,
		logger:            logger,
	}
}

// List godoc
// @Summary List devices
// @Tags Devices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or IP address"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.Device}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /devices [get]
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagingParams(r)

	result, err := h.deviceService.List(r.Context(), page, pageSize, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list devices", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list devices",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get device by ID
// @Tags Devices
// @Produce json
// @Param id path string true "Device ID" format(uuid)
// @Success 200 {object} domain.Device
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /devices/{id} [get]
func (h *DeviceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid device ID format",
		})
		return
	}

	device, err := h.deviceService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Device not found",
			})
			return
		}
		h.logger.Error("failed to get device", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get device",
		})
		return
	}

	respondJSON(w, http.StatusOK, device)
}

// Create godoc
// @Summary Register device
// @Tags Devices
// @Accept json
// @Produce json
// @Param request body domain.CreateDeviceRequest true "Device data"
// @Success 201 {object} domain.Device
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /devices [post]
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	device, err := h.deviceService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Company not found",
			})
			return
		}
		h.logger.Error("failed to create device", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create device",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/devices/"+device.ID.String())
	respondJSON(w, http.StatusCreated, device)
}

// Update godoc
// @Summary Update device
// @Tags Devices
// @Accept json
// @Produce json
// @Param id path string true "Device ID" format(uuid)
// @Param request body domain.UpdateDeviceRequest true "Device data"
// @Success 200 {object} domain.Device
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /devices/{id} [put]
func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid device ID format",
		})
		return
	}

	var req domain.UpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	device, err := h.deviceService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Device not found",
			})
			return
		}
		h.logger.Error("failed to update device", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update device",
		})
		return
	}

	respondJSON(w, http.StatusOK, device)
}

// Delete godoc
// @Summary Delete device
// @Tags Devices
// @Param id path string true "Device ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /devices/{id} [delete]
func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid device ID format",
		})
		return
	}

	if err := h.deviceService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Device not found",
			})
			return
		}
		h.logger.Error("failed to delete device", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete device",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Monitor godoc
// @Summary Check one device
// @Description Run a monitoring check against a single device and return its updated state
// @Tags Devices
// @Produce json
// @Param id path string true "Device ID" format(uuid)
// @Success 200 {object} domain.DeviceMonitoringResult
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /devices/{id}/monitor [post]
func (h *DeviceHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid device ID format",
		})
		return
	}

	result, err := h.monitoringService.CheckOne(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Device not found",
			})
			return
		}
		h.logger.Error("failed to monitor device", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to monitor device",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}
