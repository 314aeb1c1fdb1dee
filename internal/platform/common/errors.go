package common

import (
	"errors"
	"fmt"
	"net/http"

	"go.player.tech/internal/common/repository"
)

// ErrorKind represents the category of use case error.
// Each kind maps to a specific HTTP status code.
type ErrorKind int

const (
	// ErrorKindValidation represents input validation failures.
	// Maps to HTTP 400 Bad Request.
	ErrorKindValidation ErrorKind = iota

	// ErrorKindConflict represents uniqueness or protected-entity violations
	// (duplicate name, duplicate grant, deleting a default role).
	// Maps to HTTP 409 Conflict.
	ErrorKindConflict

	// ErrorKindNotFound represents entity not found errors.
	// Maps to HTTP 404 Not Found.
	ErrorKindNotFound

	// ErrorKindForbidden represents a principal lacking a required permission,
	// or an attempt to change an immutable entity.
	// Maps to HTTP 403 Forbidden.
	ErrorKindForbidden

	// ErrorKindInternal represents unexpected internal errors.
	// Maps to HTTP 500 Internal Server Error.
	ErrorKindInternal
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindValidation:
		return "VALIDATION"
	case ErrorKindConflict:
		return "CONFLICT"
	case ErrorKindNotFound:
		return "NOT_FOUND"
	case ErrorKindForbidden:
		return "FORBIDDEN"
	case ErrorKindInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus returns the HTTP status code for this error kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrorKindValidation:
		return http.StatusBadRequest
	case ErrorKindConflict:
		return http.StatusConflict
	case ErrorKindNotFound:
		return http.StatusNotFound
	case ErrorKindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// UseCaseError represents an error from a use case execution.
// It contains structured information about what went wrong,
// suitable for both logging and API responses.
type UseCaseError struct {
	Kind    ErrorKind      `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *UseCaseError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Kind.String(), e.Code, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e *UseCaseError) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// WithDetail adds a detail to the error and returns it for chaining.
func (e *UseCaseError) WithDetail(key string, value any) *UseCaseError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// IsKind reports whether err is a UseCaseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var uce *UseCaseError
	return errors.As(err, &uce) && uce.Kind == kind
}

// ValidationError creates a new validation error.
// Use for input validation failures (missing required fields, invalid format, etc.)
func ValidationError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{Kind: ErrorKindValidation, Code: code, Message: message, Details: details}
}

// ConflictError creates a new conflict error.
// Use when an operation would violate a uniqueness or protected-entity invariant.
func ConflictError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{Kind: ErrorKindConflict, Code: code, Message: message, Details: details}
}

// NotFoundError creates a new not found error.
// Use when an entity cannot be found by ID or other criteria.
func NotFoundError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{Kind: ErrorKindNotFound, Code: code, Message: message, Details: details}
}

// ForbiddenError creates a new forbidden error.
// Use when the principal lacks permission, or the target entity is immutable.
func ForbiddenError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{Kind: ErrorKindForbidden, Code: code, Message: message, Details: details}
}

// InternalError creates a new internal error.
// Use for unexpected errors that shouldn't happen in normal operation.
func InternalError(code, message string, details map[string]any) *UseCaseError {
	return &UseCaseError{Kind: ErrorKindInternal, Code: code, Message: message, Details: details}
}

// Common error codes for reuse across use cases
const (
	// Validation error codes
	ErrCodeRequired     = "REQUIRED"
	ErrCodeInvalidValue = "INVALID_VALUE"

	// Conflict error codes
	ErrCodeNameExists           = "NAME_EXISTS"
	ErrCodeGrantExists          = "GRANT_EXISTS"
	ErrCodeMembershipExists     = "MEMBERSHIP_EXISTS"
	ErrCodeDefaultRoleProtected = "DEFAULT_ROLE_PROTECTED"
	ErrCodeCommitFailed         = "COMMIT_FAILED"

	// Not found error codes
	ErrCodeEntityNotFound     = "ENTITY_NOT_FOUND"
	ErrCodeRoleNotFound       = "ROLE_NOT_FOUND"
	ErrCodeTeamRoleNotFound   = "TEAM_ROLE_NOT_FOUND"
	ErrCodePermissionNotFound = "PERMISSION_NOT_FOUND"
	ErrCodeTeamNotFound       = "TEAM_NOT_FOUND"
	ErrCodeViewNotFound       = "VIEW_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeGrantNotFound      = "GRANT_NOT_FOUND"
	ErrCodeMembershipNotFound = "MEMBERSHIP_NOT_FOUND"

	// Forbidden error codes
	ErrCodeAccessDenied   = "ACCESS_DENIED"
	ErrCodeImmutable      = "IMMUTABLE"
	ErrCodeExceedsGrantor = "EXCEEDS_GRANTOR"

	// Internal error codes
	ErrCodeDatabase = "DB_ERROR"
)

// DatabaseError wraps an unexpected repository failure.
func DatabaseError(message string, err error) *UseCaseError {
	return InternalError(ErrCodeDatabase, message, map[string]any{"error": err.Error()})
}

// LookupError converts a failed repository lookup into a use case error.
// repository.ErrNotFound becomes a NotFound error with the given code;
// anything else is reported as a database error.
func LookupError(err error, code, message string, details map[string]any) *UseCaseError {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError(code, message, details)
	}
	return DatabaseError(message, err)
}
