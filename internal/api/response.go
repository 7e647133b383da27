package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"event-explorer/internal/apperr"
	"event-explorer/internal/logger"
	"event-explorer/internal/query"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Field     string      `json:"field,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now(),
	}
}

// sendJSONResponse is a helper function to send JSON responses
func sendJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already out, so an encode failure cannot change the status.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps the error taxonomy onto a status code and error body.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status, message := classify(err)

	resp := ErrorResponse(message, err.Error())
	resp.RequestID = RequestIDFromContext(r.Context())
	if ve, ok := apperr.IsValidation(err); ok {
		resp.Field = ve.Field
		resp.Error = ve.Message
	}

	if status >= http.StatusInternalServerError {
		log.Error("API", "["+resp.RequestID+"] "+r.Method+" "+r.URL.Path+": "+err.Error())
	} else {
		log.Debug("API", "["+resp.RequestID+"] "+r.Method+" "+r.URL.Path+": "+err.Error())
	}
	sendJSONResponse(w, status, resp)
}

func classify(err error) (int, string) {
	if _, ok := apperr.IsValidation(err); ok {
		return http.StatusBadRequest, "Validation failed"
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, apperr.ErrTimeout):
		return http.StatusGatewayTimeout, "Request timed out, please try again"
	case errors.Is(err, query.ErrSuperseded):
		return http.StatusConflict, "Superseded by a newer request"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out, please try again"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "Request cancelled"
	case errors.Is(err, apperr.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, "Catalog unavailable, please try again"
	case errors.Is(err, apperr.ErrPersistence):
		return http.StatusInternalServerError, "Could not save your changes"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
