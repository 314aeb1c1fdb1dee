package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.player.tech/internal/platform/audit"
	"go.player.tech/internal/platform/auth/jwt"
	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/teamrole"
)

// Handlers contains all API handlers
type Handlers struct {
	auth    *AuthMiddleware
	limiter *RateLimiter
	keys    *jwt.KeyManager

	Authorization *AuthorizationHandler
	Roles         *RoleHandler
	TeamRoles     *TeamRoleHandler
	Teams         *TeamHandler
	Views         *ViewHandler
	// Audit is nil when no audit repository is wired
	Audit *AuditHandler
}

// Deps wires the API to the domain.
type Deps struct {
	Repositories authorization.Repositories
	UnitOfWork   common.UnitOfWork
	Authorizer   Authorizer
	Tokens       *jwt.TokenService
	Keys         *jwt.KeyManager
	Defaults     teamrole.Defaults
	// ResourceKinds accepted by POST /api/authorize
	ResourceKinds []authorization.ResourceKind
	// Audit and Limiter are optional
	Audit   audit.Repository
	Limiter *RateLimiter
	Logger  *slog.Logger
}

// NewHandlers creates all handlers
func NewHandlers(d Deps) *Handlers {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	repos := d.Repositories
	guard := NewGuard(d.Authorizer)

	h := &Handlers{
		auth:    NewAuthMiddleware(d.Tokens, logger),
		limiter: d.Limiter,
		keys:    d.Keys,

		Authorization: NewAuthorizationHandler(d.Authorizer, d.Tokens, d.ResourceKinds, logger),
		Roles:         NewRoleHandler(repos.Roles, repos.Permissions, repos.Users, d.UnitOfWork, guard, logger),
		TeamRoles: NewTeamRoleHandler(repos.TeamRoles, repos.TeamPermissions, repos.Teams, repos.Memberships,
			d.Defaults, d.UnitOfWork, guard, logger),
		Teams: NewTeamHandler(repos.Teams, repos.TeamPermissions, repos.Memberships, repos.Users, repos.TeamRoles,
			d.UnitOfWork, guard, logger),
		Views: NewViewHandler(repos.Views, repos.Teams, repos.Applications, repos.Memberships, repos.Users,
			repos.TeamRoles, d.Defaults, d.UnitOfWork, guard, logger),
	}
	if d.Audit != nil {
		h.Audit = NewAuditHandler(d.Audit, guard, logger)
	}
	return h
}

// Mount registers the public key set and the authenticated /api tree.
func (h *Handlers) Mount(r chi.Router) {
	if h.keys != nil {
		r.Get("/.well-known/jwks.json", JWKSHandler(h.keys))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		if h.limiter != nil {
			r.Use(h.limiter.Middleware)
		}

		r.Post("/authorize", h.Authorization.Authorize)
		r.Get("/me/claims", h.Authorization.Claims)
		r.Post("/me/claims-token", h.Authorization.ClaimsToken)

		r.Mount("/roles", h.Roles.Routes())
		r.Mount("/team-roles", h.TeamRoles.Routes())
		r.Mount("/teams", h.Teams.Routes())
		r.Mount("/views", h.Views.Routes())
		if h.Audit != nil {
			r.Mount("/audit-logs", h.Audit.Routes())
		}
	})
}

// NewRouter returns a router carrying only the API. Binaries add their own
// infrastructure routes and middleware around it.
func (h *Handlers) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	h.Mount(r)
	return r
}
