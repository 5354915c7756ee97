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

type BillingHandler struct {
	billingService *service.BillingService
	logger         *zap.Logger
}

func NewBillingHandler(billingService *service.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// List godoc
// @Summary List billings
// @Tags Billings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by invoice number"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.Billing}
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /billings [get]
func (h *BillingHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagingParams(r)

	result, err := h.billingService.List(r.Context(), page, pageSize, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list billings", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list billings",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get billing by ID
// @Tags Billings
// @Produce json
// @Param id path string true "Billing ID" format(uuid)
// @Success 200 {object} domain.Billing
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /billings/{id} [get]
func (h *BillingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid billing ID format",
		})
		return
	}

	billing, err := h.billingService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Billing not found",
			})
			return
		}
		h.logger.Error("failed to get billing", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get billing",
		})
		return
	}

	respondJSON(w, http.StatusOK, billing)
}

// Create godoc
// @Summary Issue invoice
// @Description Create an invoice. The total amount is derived server-side as amount + taxAmount.
// @Tags Billings
// @Accept json
// @Produce json
// @Param request body domain.CreateBillingRequest true "Billing data"
// @Success 201 {object} domain.Billing
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate invoice number"
// @Security BearerAuth
// @Router /billings [post]
func (h *BillingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBillingRequest
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

	billing, err := h.billingService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Company or customer not found",
			})
			return
		}
		if errors.Is(err, service.ErrCustomerCompanyMismatch) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Customer belongs to a different company",
			})
			return
		}
		if isUniqueViolation(err) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A billing with this invoice number already exists",
			})
			return
		}
		h.logger.Error("failed to create billing", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create billing",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/billings/"+billing.ID.String())
	respondJSON(w, http.StatusCreated, billing)
}

// UpdateStatus godoc
// @Summary Update billing status
// @Description Transition an invoice's status. paid_at is managed server-side.
// @Tags Billings
// @Accept json
// @Produce json
// @Param id path string true "Billing ID" format(uuid)
// @Param request body domain.UpdateBillingStatusRequest true "Status transition"
// @Success 200 {object} domain.Billing
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /billings/{id}/status [patch]
func (h *BillingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid billing ID format",
		})
		return
	}

	var req domain.UpdateBillingStatusRequest
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

	billing, err := h.billingService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Billing not found",
			})
			return
		}
		h.logger.Error("failed to update billing status", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update billing status",
		})
		return
	}

	respondJSON(w, http.StatusOK, billing)
}

// Delete godoc
// @Summary Delete billing
// @Tags Billings
// @Param id path string true "Billing ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /billings/{id} [delete]
func (h *BillingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid billing ID format",
		})
		return
	}

	if err := h.billingService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Billing not found",
			})
			return
		}
		h.logger.Error("failed to delete billing", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete billing",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
