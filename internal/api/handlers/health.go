// Package handlers provides HTTP request handlers for the reconkit API.
// This file implements health check endpoints.
package handlers

import (
	"net/http"
	"os/exec"
	"time"

	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/logging"
	"github.com/reconkit/reconkit/internal/metrics"
)

// Status constants.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// reconTools lists the external binaries the engine shells out to. nmap is
// optional because the port scanner has a connect-probe fallback.
var reconTools = []string{"whois", "dig", "curl", "ping", "nmap"}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	gate      *auth.Gate
	logger    *logging.Logger
	metrics   metrics.MetricsRegistry
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(
	gate *auth.Gate,
	logger *logging.Logger,
	metricsRegistry metrics.MetricsRegistry,
) *HealthHandler {
	return &HealthHandler{
		gate:      gate,
		logger:    logger.WithFields("handler", "health"),
		metrics:   metricsRegistry,
		startTime: time.Now(),
	}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Authorized bool              `json:"authorized"`
	Checks     map[string]string `json:"checks"`
}

// LivenessResponse represents a simple liveness check response.
type LivenessResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// ReadinessResponse represents a readiness check response.
type ReadinessResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health reports overall service health including which external tools are
// installed. Missing tools degrade the status but the service keeps serving,
// so the response is always 200.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested", "remote_addr", r.RemoteAddr)

	response := HealthResponse{
		Status:     StatusHealthy,
		Version:    getVersion(),
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(h.startTime).String(),
		Authorized: h.gate.Current().Confirmed(),
		Checks:     checkTools(),
	}

	for _, status := range response.Checks {
		if status != "ok" {
			response.Status = StatusDegraded
			break
		}
	}

	writeJSON(w, r, http.StatusOK, response)

	if h.metrics != nil {
		h.metrics.Counter("api_health_checks_total", metrics.Labels{
			"status": response.Status,
		})
	}
}

// Liveness performs a simple liveness check without dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Liveness check requested", "remote_addr", r.RemoteAddr)

	response := LivenessResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).String(),
	}

	writeJSON(w, r, http.StatusOK, response)

	if h.metrics != nil {
		h.metrics.Counter("api_liveness_checks_total", nil)
	}
}

// Readiness reports whether the service can accept requests. There are no
// startup dependencies beyond the listener itself.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Readiness check requested", "remote_addr", r.RemoteAddr)

	response := ReadinessResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
	}

	writeJSON(w, r, http.StatusOK, response)

	if h.metrics != nil {
		h.metrics.Counter("api_readiness_checks_total", nil)
	}
}

// checkTools reports PATH availability for each external tool.
func checkTools() map[string]string {
	checks := make(map[string]string, len(reconTools))
	for _, tool := range reconTools {
		if _, err := exec.LookPath(tool); err != nil {
			checks[tool] = "not found"
		} else {
			checks[tool] = "ok"
		}
	}
	return checks
}

// version is set via ldflags at build time.
var version = "dev"

func getVersion() string {
	return version
}

// SetVersion sets the reported version (called by the main package).
func SetVersion(v string) {
	version = v
}
