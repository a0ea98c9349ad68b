// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/config"
	"github.com/fridgeraider/fridgeraider/internal/ports/inbound"
	"github.com/fridgeraider/fridgeraider/pkg/errors"
)

// APIHandlers handles REST API requests
type APIHandlers struct {
	workspace   inbound.WorkspaceService
	pantry      inbound.PantryService
	preferences inbound.PreferenceService
	validate    *validator.Validate
	upgrader    websocket.Upgrader
	features    config.FeatureFlags
	logger      *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	workspace inbound.WorkspaceService,
	pantry inbound.PantryService,
	preferences inbound.PreferenceService,
	cfg *config.Config,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		workspace:   workspace,
		pantry:      pantry,
		preferences: preferences,
		validate:    NewValidator(),
		upgrader:    newUpgrader(cfg.Server.AllowedOrigins),
		features:    cfg.Features,
		logger:      logger.Named("api"),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool                 `json:"success"`
	Data    interface{}          `json:"data,omitempty"`
	Error   *errors.ErrorDetails `json:"error,omitempty"`
	Message string               `json:"message,omitempty"`
}

func (h *APIHandlers) respond(w http.ResponseWriter, status int, data interface{}, message string) {
	h.writeJSON(w, status, APIResponse{Success: true, Data: data, Message: message})
}

// respondError renders err as an error envelope. Anything that is not an
// AppError becomes an internal error.
func (h *APIHandlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "An unexpected error occurred")
	status := appErr.StatusCode()

	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
	} else {
		h.logger.Debug("Request rejected", fields...)
	}

	details := errors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())).Error
	h.writeJSON(w, status, APIResponse{Success: false, Error: &details})
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// decode reads a JSON body into dst and validates it
func (h *APIHandlers) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewBadRequestError("Invalid JSON payload").WithCause(err)
	}
	return h.check(dst)
}

func (h *APIHandlers) check(v interface{}) error {
	if err := h.validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}
