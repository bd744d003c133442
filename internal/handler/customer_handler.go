package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/service"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	activityService service.ActivityService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(
	customerService service.CustomerService,
	activityService service.ActivityService,
	logger *slog.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		activityService: activityService,
		logger:          logger,
	}
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.List(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customers)
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerInput
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, customer)
}

// GetCustomer handles GET /customers/{licenseNumber}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerService.Get(r.Context(), pathParam(r, "licenseNumber"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// UpdateCustomer handles PUT /customers/{licenseNumber}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var patch models.CustomerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	customer, err := h.customerService.Update(r.Context(), pathParam(r, "licenseNumber"), &patch)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// DeleteCustomer handles DELETE /customers/{licenseNumber}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customerService.Delete(r.Context(), pathParam(r, "licenseNumber")); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, DeleteResult{Deleted: true})
}

// ListActivity handles GET /customers/{licenseNumber}/activity
func (h *CustomerHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, models.CodeInvalidInput, "limit must be a number")
			return
		}
		limit = parsed
	}

	activities, err := h.activityService.List(r.Context(), pathParam(r, "licenseNumber"), limit)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, activities)
}
