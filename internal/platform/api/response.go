package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// WriteBadRequest writes a 400 error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message)
}

// WriteUnauthorized writes a 401 error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message)
}

// WriteInternalError writes a 500 error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message)
}

// WriteUseCaseError writes an error response with the status of its kind:
// Validation 400, Forbidden 403, NotFound 404, Conflict 409, otherwise 500.
func WriteUseCaseError(w http.ResponseWriter, err *common.UseCaseError) {
	WriteJSON(w, err.HTTPStatus(), ErrorResponse{
		Error:   err.Code,
		Message: err.Message,
		Details: err.Details,
	})
}

// WriteUseCaseResult writes a successful use case result or error
func WriteUseCaseResult[T any](w http.ResponseWriter, result common.Result[T], successStatus int) {
	if result.IsFailure() {
		WriteUseCaseError(w, result.Error())
		return
	}
	WriteJSON(w, successStatus, result.Value())
}

// WriteLookup writes value, or the error a failed repository lookup maps to.
func WriteLookup(w http.ResponseWriter, logger *slog.Logger, value any, err error, notFoundCode, entity string) {
	if err == nil {
		WriteJSON(w, http.StatusOK, value)
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		logger.Error("Lookup failed", "entity", entity, "error", err)
	}
	WriteUseCaseError(w, common.LookupError(err, notFoundCode, entity+" not found", nil))
}

// DecodeJSON decodes JSON from a request body. An empty body leaves v as is.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
