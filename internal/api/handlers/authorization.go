// Package handlers provides HTTP request handlers for the reconkit API.
// This file implements the authorization gate endpoints.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/reconkit/reconkit/internal/api/middleware"
	"github.com/reconkit/reconkit/internal/auth"
	"github.com/reconkit/reconkit/internal/logging"
	"github.com/reconkit/reconkit/internal/metrics"
)

// AuthorizationHandler handles reading and updating the authorization gate.
type AuthorizationHandler struct {
	gate      *auth.Gate
	logger    *logging.Logger
	metrics   metrics.MetricsRegistry
	validator *validator.Validate
}

// NewAuthorizationHandler creates a new authorization handler.
func NewAuthorizationHandler(
	gate *auth.Gate,
	logger *logging.Logger,
	metricsRegistry metrics.MetricsRegistry,
) *AuthorizationHandler {
	return &AuthorizationHandler{
		gate:      gate,
		logger:    logger.WithFields("handler", "authorization"),
		metrics:   metricsRegistry,
		validator: validator.New(),
	}
}

// AuthorizationUpdateRequest confirms or revokes the active grant. Authorized
// is a pointer so that an explicit false revokes instead of failing the
// required check.
type AuthorizationUpdateRequest struct {
	Authorized *bool  `json:"authorized" validate:"required"`
	Operator   string `json:"operator" validate:"omitempty,max=128"`
}

// Get handles GET /authorization and returns the gate state.
func (h *AuthorizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Authorization state requested", "request_id", middleware.GetRequestID(r))

	writeJSON(w, r, http.StatusOK, h.gate.State())
}

// Update handles POST /authorization. Confirming records the operator label
// on the grant; revoking clears it for all subsequent operations.
func (h *AuthorizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r)

	var req AuthorizationUpdateRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("request validation failed: %w", err))
		return
	}

	action := "revoke"
	if *req.Authorized {
		action = "confirm"
		h.gate.Confirm(req.Operator)
		h.logger.Info("Authorization confirmed",
			"request_id", requestID,
			"operator", req.Operator)
	} else {
		h.gate.Revoke()
		h.logger.Info("Authorization revoked", "request_id", requestID)
	}

	if h.metrics != nil {
		h.metrics.Counter("api_authorization_updates_total", metrics.Labels{
			"action": action,
		})
	}

	writeJSON(w, r, http.StatusOK, h.gate.State())
}
