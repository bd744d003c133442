package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

// RouterConfig aggregates the handlers and settings the router needs
type RouterConfig struct {
	Customers      *CustomerHandler
	ServiceHistory *ServiceHistoryHandler
	Health         *HealthHandler
	Metrics        *Metrics
	Logger         *slog.Logger
	RateLimit      int
	RateWindow     time.Duration
	Production     bool
}

// NewRouter wires the middleware stack and every route of the API
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSMiddleware)
	r.Use(SecureMiddleware(cfg.Production, cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Health)
	}
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
			r.Use(RateLimitMiddleware(cfg.RateLimit, cfg.RateWindow))
		}

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", cfg.Customers.ListCustomers)
			r.Post("/", cfg.Customers.CreateCustomer)
			r.Get("/{licenseNumber}", cfg.Customers.GetCustomer)
			r.Put("/{licenseNumber}", cfg.Customers.UpdateCustomer)
			r.Delete("/{licenseNumber}", cfg.Customers.DeleteCustomer)
			r.Get("/{licenseNumber}/activity", cfg.Customers.ListActivity)
		})

		r.Route("/service-history", func(r chi.Router) {
			r.Get("/", cfg.ServiceHistory.ListServiceHistory)
			r.Post("/", cfg.ServiceHistory.CreateServiceHistory)
			r.Put("/{id}", cfg.ServiceHistory.UpdateServiceHistory)
			r.Delete("/{id}", cfg.ServiceHistory.DeleteServiceHistory)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, models.CodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	return r
}
