package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"video-library/internal/startup"
)

// HealthResponse contains the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
}

// HealthCheck reports liveness. GET /healthz.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, HealthResponse{
		Status:  "healthy",
		Ready:   h.indexer.IsReady(),
		Version: startup.Version,
	})
}

// ReadinessCheck reports readiness: 200 once the initial reconcile has
// completed, 503 before that. GET /readyz.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if !h.indexer.IsReady() {
		writeJSONStatus(w, http.StatusServiceUnavailable, HealthResponse{Status: "starting", Version: startup.Version})
		return
	}
	writeJSON(w, HealthResponse{Status: "healthy", Ready: true, Version: startup.Version})
}

// MetricsHandler returns the Prometheus metrics handler.
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
