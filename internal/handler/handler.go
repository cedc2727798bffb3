// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shortenerproject/shortener/internal/handler/dto"
	"github.com/shortenerproject/shortener/internal/service"
)

// NotFound handles 404 responses for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: dto.ErrorDetail{Code: code, Message: message}})
}

// writeServiceError maps service errors to HTTP responses. Unknown errors
// are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrOriginURLTooLong):
		writeError(w, http.StatusBadRequest, "INVALID_ORIGIN_URL", "Origin URL must be at most 2048 characters")
	case errors.Is(err, service.ErrInvalidOriginURL):
		writeError(w, http.StatusBadRequest, "INVALID_ORIGIN_URL", "Origin URL must start with http:// or https://")
	case errors.Is(err, service.ErrOwnerNotFound):
		writeError(w, http.StatusUnprocessableEntity, "OWNER_NOT_FOUND", "Owner does not exist")
	case errors.Is(err, service.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "LINK_NOT_FOUND", "Link not found")
	case errors.Is(err, service.ErrAliasNotFound):
		writeError(w, http.StatusNotFound, "ALIAS_NOT_FOUND", "Alias not found")
	case errors.Is(err, service.ErrAllocationExhausted):
		logger.ErrorContext(r.Context(), "alias_allocation_failed", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "ALLOCATION_EXHAUSTED", "Could not allocate an alias, retry later")
	case errors.Is(err, service.ErrStoreUnavailable):
		logger.ErrorContext(r.Context(), "store_unavailable", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Storage is temporarily unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(r.Context(), "request_aborted", slog.String("error", err.Error()))
		writeError(w, http.StatusGatewayTimeout, "REQUEST_ABORTED", "Request was canceled or timed out")
	default:
		logger.ErrorContext(r.Context(), "internal_error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
