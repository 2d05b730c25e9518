package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Not found
	case errors.Is(err, domain.ErrAgentNotFound):
		return http.StatusNotFound, "AGENT_NOT_FOUND", message
	case errors.Is(err, domain.ErrVersionNotFound):
		return http.StatusNotFound, "VERSION_NOT_FOUND", message

	// Validation
	case errors.Is(err, domain.ErrDraftVersion):
		return http.StatusUnprocessableEntity, "DRAFT_VERSION", message
	case errors.Is(err, domain.ErrVersionNameTaken):
		return http.StatusUnprocessableEntity, "VERSION_NAME_TAKEN", message
	case errors.Is(err, domain.ErrRollbackToCurrent):
		return http.StatusUnprocessableEntity, "ROLLBACK_TO_CURRENT", message
	case errors.Is(err, domain.ErrInvalidToolParam):
		return http.StatusUnprocessableEntity, "INVALID_TOOL_PARAM", message

	// Conflict
	case errors.Is(err, domain.ErrDeleteCurrentVersion):
		return http.StatusConflict, "DELETE_CURRENT_VERSION", message
	case errors.Is(err, domain.ErrCurrentVersionStatus):
		return http.StatusConflict, "CURRENT_VERSION_STATUS", message
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", message
	case errors.Is(err, domain.ErrVersionDisabled):
		return http.StatusConflict, "VERSION_DISABLED", message
	case errors.Is(err, domain.ErrStaleVersion):
		return http.StatusConflict, "STALE_VERSION", message

	// Kinds
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", message
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", message
	case errors.Is(err, domain.ErrTransient):
		slog.Warn("storage temporarily unavailable", "error", err)
		return http.StatusServiceUnavailable, "UNAVAILABLE", "Service temporarily unavailable"

	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
