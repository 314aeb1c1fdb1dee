package common

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.player.tech/internal/common/ids"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlationID"
	executionCtxKey  contextKey = "executionContext"
)

// HTTP header names for distributed tracing
const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"
	HeaderCausationID   = "X-Causation-ID"
)

// ExecutionContext contains metadata about the current use case execution.
// It carries tracing ids into domain events and identifies the principal
// for the audit log.
type ExecutionContext struct {
	// ExecutionID is generated fresh for each use case invocation.
	ExecutionID string

	// CorrelationID is propagated across service boundaries.
	CorrelationID string

	// CausationID is the ID of the event that caused this execution, if any.
	CausationID string

	// PrincipalID identifies the user performing the action.
	PrincipalID string

	// InitiatedAt is when the execution started.
	InitiatedAt time.Time
}

func newExecutionID() string {
	return "exec-" + ids.NewEventID()
}

// NewExecutionContext creates a new execution context for a fresh request.
func NewExecutionContext(principalID string) *ExecutionContext {
	execID := newExecutionID()
	return &ExecutionContext{
		ExecutionID:   execID,
		CorrelationID: execID,
		PrincipalID:   principalID,
		InitiatedAt:   time.Now(),
	}
}

// ExecutionContextFromRequest creates an execution context from an HTTP request,
// honouring inbound correlation and causation headers.
func ExecutionContextFromRequest(r *http.Request, principalID string) *ExecutionContext {
	ec := NewExecutionContext(principalID)
	if id := CorrelationIDFromContext(r.Context()); id != "" {
		ec.CorrelationID = id
	} else if id := firstHeader(r, HeaderCorrelationID, HeaderRequestID); id != "" {
		ec.CorrelationID = id
	}
	ec.CausationID = r.Header.Get(HeaderCausationID)
	return ec
}

// FromParentEvent creates an execution context caused by a domain event.
// Used when a listener issues follow-up commands.
func FromParentEvent(event DomainEvent, principalID string) *ExecutionContext {
	return &ExecutionContext{
		ExecutionID:   newExecutionID(),
		CorrelationID: event.CorrelationID(),
		CausationID:   event.EventID(),
		PrincipalID:   principalID,
		InitiatedAt:   time.Now(),
	}
}

// ToContext stores the execution context in a Go context.
func (ec *ExecutionContext) ToContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, executionCtxKey, ec)
}

// LogAttrs returns the tracing attributes for structured logging.
func (ec *ExecutionContext) LogAttrs() []any {
	return []any{
		slog.String("executionId", ec.ExecutionID),
		slog.String("correlationId", ec.CorrelationID),
		slog.String("principalId", ec.PrincipalID),
	}
}

// ExecutionContextFromContext extracts execution context from a Go context.
// Returns nil if no execution context is present.
func ExecutionContextFromContext(ctx context.Context) *ExecutionContext {
	if ec, ok := ctx.Value(executionCtxKey).(*ExecutionContext); ok {
		return ec
	}
	return nil
}

// CorrelationIDFromContext extracts just the correlation ID from a context.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	if ec := ExecutionContextFromContext(ctx); ec != nil {
		return ec.CorrelationID
	}
	return ""
}

// WithCorrelationID adds a correlation ID to a context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// TracingMiddleware extracts or generates the correlation id for a request,
// stores it in the request context and echoes it on the response.
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := firstHeader(r, HeaderCorrelationID, HeaderRequestID)
		if correlationID == "" {
			correlationID = "trace-" + ids.NewEventID()
		}
		w.Header().Set(HeaderCorrelationID, correlationID)
		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), correlationID)))
	})
}

func firstHeader(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.Header.Get(name); v != "" {
			return v
		}
	}
	return ""
}
