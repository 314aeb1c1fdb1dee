package api

import (
	"log/slog"
	"net/http"

	"go.player.tech/internal/platform/auth/jwt"
	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
)

// AuthorizeRequest is the body of POST /api/authorize. Holding any listed
// permission at its level is enough.
type AuthorizeRequest struct {
	System   []string                   `json:"system,omitempty"`
	View     []string                   `json:"view,omitempty"`
	Team     []string                   `json:"team,omitempty"`
	Resource *authorization.ResourceRef `json:"resource,omitempty"`
}

// AuthorizeResponse reports the decision.
type AuthorizeResponse struct {
	Allowed bool `json:"allowed"`
}

// ClaimsTokenResponse carries a signed claims token.
type ClaimsTokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AuthorizationHandler serves decisions and claims to the caller.
type AuthorizationHandler struct {
	authz  Authorizer
	tokens *jwt.TokenService
	kinds  map[authorization.ResourceKind]bool
	logger *slog.Logger
}

// NewAuthorizationHandler creates a handler. kinds lists the resource kinds
// the resolver can scope; requests naming any other kind are rejected
// before they reach the engine.
func NewAuthorizationHandler(authz Authorizer, tokens *jwt.TokenService, kinds []authorization.ResourceKind, logger *slog.Logger) *AuthorizationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	known := make(map[authorization.ResourceKind]bool, len(kinds))
	for _, k := range kinds {
		known[k] = true
	}
	return &AuthorizationHandler{authz: authz, tokens: tokens, kinds: known, logger: logger}
}

// Authorize handles POST /api/authorize
func (h *AuthorizationHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var body AuthorizeRequest
	if err := DecodeJSON(r, &body); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	req, verr := h.requirement(body)
	if verr != nil {
		WriteUseCaseError(w, verr)
		return
	}

	allowed, err := h.authz.Authorize(r.Context(), GetPrincipalID(r.Context()), req)
	if err != nil {
		h.logger.Error("Failed to load claims", "error", err)
		WriteInternalError(w, "Failed to load permissions")
		return
	}
	WriteJSON(w, http.StatusOK, AuthorizeResponse{Allowed: allowed})
}

func (h *AuthorizationHandler) requirement(body AuthorizeRequest) (authorization.Requirement, *common.UseCaseError) {
	var req authorization.Requirement

	system := names(authorization.SystemPermissions())
	for _, p := range body.System {
		if !system[p] {
			return req, unknownPermission("system", p)
		}
		req.System = append(req.System, authorization.SystemPermission(p))
	}
	view := names(authorization.ViewPermissions())
	for _, p := range body.View {
		if !view[p] {
			return req, unknownPermission("view", p)
		}
		req.View = append(req.View, authorization.ViewPermission(p))
	}
	team := names(authorization.TeamPermissions())
	for _, p := range body.Team {
		if !team[p] {
			return req, unknownPermission("team", p)
		}
		req.Team = append(req.Team, authorization.TeamPermission(p))
	}

	if body.Resource != nil {
		if !h.kinds[body.Resource.Kind] {
			return req, common.ValidationError(common.ErrCodeInvalidValue, "unknown resource kind",
				map[string]any{"kind": body.Resource.Kind})
		}
		if body.Resource.ID == "" {
			return req, common.ValidationError(common.ErrCodeRequired, "resource id is required", nil)
		}
		req.Resource = body.Resource
	}
	return req, nil
}

func names(defs []authorization.Definition) map[string]bool {
	set := make(map[string]bool, len(defs))
	for _, d := range defs {
		set[d.Name] = true
	}
	return set
}

func unknownPermission(level, name string) *common.UseCaseError {
	return common.ValidationError(common.ErrCodeInvalidValue, "unknown "+level+" permission",
		map[string]any{"permission": name})
}

// Claims handles GET /api/me/claims
func (h *AuthorizationHandler) Claims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authz.Claims(r.Context(), GetPrincipalID(r.Context()))
	if err != nil {
		h.logger.Error("Failed to load claims", "error", err)
		WriteInternalError(w, "Failed to load permissions")
		return
	}
	WriteJSON(w, http.StatusOK, claims)
}

// ClaimsToken handles POST /api/me/claims-token
func (h *AuthorizationHandler) ClaimsToken(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authz.Claims(r.Context(), GetPrincipalID(r.Context()))
	if err != nil {
		h.logger.Error("Failed to load claims", "error", err)
		WriteInternalError(w, "Failed to load permissions")
		return
	}

	token, err := h.tokens.IssueClaimsToken(claims)
	if err != nil {
		h.logger.Error("Failed to sign claims token", "error", err)
		WriteInternalError(w, "Failed to issue token")
		return
	}

	WriteJSON(w, http.StatusOK, ClaimsTokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokens.ClaimsTokenExpiry().Seconds()),
	})
}

// JWKSHandler serves the key set that verifies issued tokens.
func JWKSHandler(keys *jwt.KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		WriteJSON(w, http.StatusOK, keys.GetJWKS())
	}
}
