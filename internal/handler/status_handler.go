// internal/handler/status_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Service metadata served by the index endpoint.
const (
	ServiceName        = "Customers Service"
	ServiceVersion     = "v1.0.0"
	ServiceDescription = "Service managing customer accounts for the eCommerce site"
)

// ServiceInfo is the GET / response body.
type ServiceInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	ListURL     string `json:"list_url"`
}

// HealthResponse is the GET /health response body.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatusHandler serves the service metadata and health endpoints.
type StatusHandler struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// Index handles GET / with a fixed metadata object pointing at the collection.
func (h *StatusHandler) Index(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, ServiceInfo{
		Name:        ServiceName,
		Version:     ServiceVersion,
		Description: ServiceDescription,
		ListURL:     "/customers",
	})
}

// Health handles GET /health: 200 while the store answers pings, 503 otherwise.
func (h *StatusHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.DB.Ping(); err != nil {
		h.Logger.Error("store ping failed", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
		return
	}
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *StatusHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}
