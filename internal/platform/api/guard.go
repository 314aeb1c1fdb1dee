package api

import (
	"context"
	"net/http"

	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
)

// Authorizer answers authorization questions for the authenticated user.
type Authorizer interface {
	Claims(ctx context.Context, userID string) (*authorization.Claims, error)
	Authorize(ctx context.Context, userID string, req authorization.Requirement) (bool, error)
	Require(ctx context.Context, userID string, req authorization.Requirement) *common.UseCaseError
}

// RequirementFunc builds the requirement of a request, typically from its
// route parameters.
type RequirementFunc func(r *http.Request) authorization.Requirement

// Static returns a RequirementFunc that ignores the request.
func Static(req authorization.Requirement) RequirementFunc {
	return func(*http.Request) authorization.Requirement { return req }
}

// Guard rejects requests whose caller does not satisfy a requirement. It
// must run after AuthMiddleware.RequireAuth.
type Guard struct {
	authz Authorizer
}

// NewGuard creates a guard over authz.
func NewGuard(authz Authorizer) *Guard {
	return &Guard{authz: authz}
}

// Require returns middleware enforcing build(r). Route parameters are
// available because chi resolves them before inline middleware runs.
func (g *Guard) Require(build RequirementFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetPrincipalID(r.Context())
			if userID == "" {
				WriteUnauthorized(w, "Authentication required")
				return
			}
			if err := g.authz.Require(r.Context(), userID, build(r)); err != nil {
				WriteUseCaseError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
