package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/service"
)

// ServiceHistoryHandler handles service history HTTP requests
type ServiceHistoryHandler struct {
	historyService service.ServiceHistoryService
	logger         *slog.Logger
}

// NewServiceHistoryHandler creates a new service history handler
func NewServiceHistoryHandler(historyService service.ServiceHistoryService, logger *slog.Logger) *ServiceHistoryHandler {
	return &ServiceHistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// ListServiceHistory handles GET /service-history?licenseNumber=
func (h *ServiceHistoryHandler) ListServiceHistory(w http.ResponseWriter, r *http.Request) {
	licenseNumber := r.URL.Query().Get("licenseNumber")
	if licenseNumber == "" {
		respondError(w, http.StatusBadRequest, models.CodeInvalidInput, "licenseNumber query parameter is required")
		return
	}

	entries, err := h.historyService.List(r.Context(), licenseNumber)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, entries)
}

// CreateServiceHistory handles POST /service-history
func (h *ServiceHistoryHandler) CreateServiceHistory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateServiceHistoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.historyService.Create(r.Context(), req.LicenseNumber, &req.ServiceHistoryInput)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, entry)
}

// UpdateServiceHistory handles PUT /service-history/{id}
func (h *ServiceHistoryHandler) UpdateServiceHistory(w http.ResponseWriter, r *http.Request) {
	var patch models.ServiceHistoryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	entry, err := h.historyService.Update(r.Context(), pathParam(r, "id"), &patch)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, entry)
}

// DeleteServiceHistory handles DELETE /service-history/{id}
func (h *ServiceHistoryHandler) DeleteServiceHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.historyService.Delete(r.Context(), pathParam(r, "id")); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, DeleteResult{Deleted: true})
}
