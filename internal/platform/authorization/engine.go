package authorization

import (
	"context"
	"log/slog"

	"go.player.tech/internal/common/metrics"
)

// Requirement is what a request handler needs from the caller. Holding any
// one System permission is enough. Otherwise the caller needs any Team
// permission on the resolved Team, or any View permission on the resolved
// View. Without a Resource the scoped check passes if any Team or View the
// caller belongs to qualifies.
type Requirement struct {
	System   []SystemPermission
	View     []ViewPermission
	Team     []TeamPermission
	Resource *ResourceRef
}

// ScopeResolver resolves the owning scope of a resource.
type ScopeResolver interface {
	Resolve(ctx context.Context, ref ResourceRef) (Scope, bool, error)
}

// Engine evaluates Requirements against materialized Claims.
type Engine struct {
	resolver ScopeResolver
	logger   *slog.Logger
}

// NewEngine creates a new decision engine.
func NewEngine(resolver ScopeResolver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{resolver: resolver, logger: logger}
}

// Authorize decides whether claims satisfy req. Denial is an ordinary
// false, never an error. A resource that cannot be resolved, for any reason,
// is denied.
func (e *Engine) Authorize(ctx context.Context, claims *Claims, req Requirement) bool {
	allowed, path := e.decide(ctx, claims, req)

	result := "deny"
	if allowed {
		result = "allow"
	}
	metrics.AuthorizationDecisions.WithLabelValues(result, path).Inc()
	return allowed
}

func (e *Engine) decide(ctx context.Context, claims *Claims, req Requirement) (bool, string) {
	if claims == nil {
		return false, "no_claims"
	}

	// A system permission always short-circuits the scoped check.
	if claims.HasAnySystem(req.System) {
		return true, "system"
	}

	if req.Resource == nil {
		return anyScope(claims, req), "any_scope"
	}

	scope, ok, err := e.resolver.Resolve(ctx, *req.Resource)
	if err != nil {
		e.logger.WarnContext(ctx, "Denying access, resource resolution failed",
			"kind", req.Resource.Kind,
			"id", req.Resource.ID,
			"error", err)
		return false, "unresolved"
	}
	if !ok {
		return false, "unresolved"
	}

	if scope.TeamID != "" {
		if t, found := claims.Team(scope.TeamID); found && t.HasAnyTeam(req.Team) {
			return true, "resource"
		}
	}
	return claims.HasAnyViewPermission(scope.ViewID, req.View), "resource"
}

// anyScope passes if a single team claim holds a required Team permission,
// or the union for one View holds a required View permission. Every View
// union is a union of its team claims, so checking each claim is enough.
func anyScope(claims *Claims, req Requirement) bool {
	for _, t := range claims.Teams {
		if t.HasAnyTeam(req.Team) || t.HasAnyView(req.View) {
			return true
		}
	}
	return false
}
