package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dispatch-booking-service/internal/infrastructure/persistence"
	"dispatch-booking-service/internal/interface/handler"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the HTTP router. /health fails when
// any of checks fails.
func SetupRouter(h *handler.Handler, gatherer prometheus.Gatherer, checks ...persistence.HealthCheck) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	api := r.PathPrefix("/api/bookings").Subrouter()

	// Workflows
	api.HandleFunc("/workflows", h.StartWorkflow).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/workflows/{id}", h.GetWorkflow).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/workflows/{id}", h.UpdateWorkflow).Methods(http.MethodPatch, http.MethodOptions)
	api.HandleFunc("/workflows/{id}", h.Abandon).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/workflows/{id}/advance", h.Advance).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/workflows/{id}/retreat", h.Retreat).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/workflows/{id}/jump", h.JumpTo).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/workflows/{id}/submit", h.Submit).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/workflows/{id}/reset", h.Reset).Methods(http.MethodPost, http.MethodOptions)

	// WebSocket for asynchronous flight lookup results
	api.HandleFunc("/workflows/{id}/ws", h.WorkflowSocket).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/health", healthCheck(checks)).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(checks []persistence.HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "healthy"}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body[c.Name] = err.Error()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}
