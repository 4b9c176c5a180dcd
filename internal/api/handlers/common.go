// Package handlers provides HTTP request handlers for the reconkit API.
// This file contains common utilities shared across all handlers so request
// parsing and response envelopes stay consistent.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reconkit/reconkit/internal/api/middleware"
	"github.com/reconkit/reconkit/internal/errors"
	"github.com/reconkit/reconkit/internal/logging"
	"github.com/reconkit/reconkit/internal/metrics"
)

// maxRequestBytes caps tool request bodies. The requests are tiny; anything
// close to the cap is abuse.
const maxRequestBytes = 1 << 20

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log error but don't try to write another response
		logging.Default().Error("Failed to encode JSON response",
			"request_id", middleware.GetRequestID(r),
			"error", err)
	}
}

// writeError writes an error response envelope.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(r),
	}

	writeJSON(w, r, statusCode, response)
}

// statusForError maps engine error codes to HTTP status codes. Validation
// problems are the caller's fault, refused authorization is forbidden, and
// anything that went wrong in an external tool reports as a bad gateway.
func statusForError(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.IsUnauthorized(err):
		return http.StatusForbidden
	case errors.IsToolUnavailable(err):
		return http.StatusBadGateway
	case errors.IsCode(err, errors.CodeTimeout):
		return http.StatusGatewayTimeout
	case errors.IsCode(err, errors.CodeExecution):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeEngineError writes an error response with the status derived from the
// engine error code.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, statusForError(err), err)
}

// parseJSON parses a JSON request body into the provided destination with
// security constraints.
func parseJSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if err.Error() == "http: request body too large" {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// recordToolMetric counts a tool request outcome.
func recordToolMetric(metricsRegistry metrics.MetricsRegistry, tool, outcome string) {
	if metricsRegistry != nil {
		metricsRegistry.Counter("api_tool_requests_total", metrics.Labels{
			"tool":    tool,
			"outcome": outcome,
		})
	}
}
