package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/teamrole/operations"
)

// TeamRoleHandler handles team role endpoints. Team roles are part of the
// role model, so the same system permissions guard them as system roles.
type TeamRoleHandler struct {
	repo   teamrole.Repository
	guard  *Guard
	logger *slog.Logger

	createUseCase *operations.CreateTeamRoleUseCase
	updateUseCase *operations.UpdateTeamRoleUseCase
	deleteUseCase *operations.DeleteTeamRoleUseCase
	grantUseCase  *operations.AddPermissionToTeamRoleUseCase
	revokeUseCase *operations.RemovePermissionFromTeamRoleUseCase
}

// NewTeamRoleHandler creates a new team role handler
func NewTeamRoleHandler(
	repo teamrole.Repository,
	permissions teampermission.Repository,
	teams team.Repository,
	memberships membership.Repository,
	defaults teamrole.Defaults,
	uow common.UnitOfWork,
	guard *Guard,
	logger *slog.Logger,
) *TeamRoleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamRoleHandler{
		repo:          repo,
		guard:         guard,
		logger:        logger,
		createUseCase: operations.NewCreateTeamRoleUseCase(repo, uow),
		updateUseCase: operations.NewUpdateTeamRoleUseCase(repo, defaults, uow),
		deleteUseCase: operations.NewDeleteTeamRoleUseCase(repo, teams, memberships, defaults, uow),
		grantUseCase:  operations.NewAddPermissionToTeamRoleUseCase(repo, permissions, uow),
		revokeUseCase: operations.NewRemovePermissionFromTeamRoleUseCase(repo, permissions, uow),
	}
}

// Routes returns the router for team role endpoints
func (h *TeamRoleHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.guard.Require(readRoles)).Get("/", h.List)
	r.With(h.guard.Require(readRoles)).Get("/{id}", h.Get)
	r.With(h.guard.Require(readRoles)).Get("/{id}/permissions", h.ListPermissions)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(manageRoles))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Put("/{id}/permissions/{permissionId}", h.Grant)
		r.Delete("/{id}/permissions/{permissionId}", h.Revoke)
	})

	return r
}

// List handles GET /api/team-roles
func (h *TeamRoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list team roles", "error", err)
		WriteInternalError(w, "Failed to list team roles")
		return
	}
	WriteJSON(w, http.StatusOK, roles)
}

// Get handles GET /api/team-roles/{id}
func (h *TeamRoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	WriteLookup(w, h.logger, found, err, common.ErrCodeTeamRoleNotFound, "Team role")
}

// ListPermissions handles GET /api/team-roles/{id}/permissions
func (h *TeamRoleHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.repo.FindByID(r.Context(), id); err != nil {
		WriteLookup(w, h.logger, nil, err, common.ErrCodeTeamRoleNotFound, "Team role")
		return
	}
	grants, err := h.repo.FindPermissions(r.Context(), id)
	WriteLookup(w, h.logger, grants, err, common.ErrCodeTeamRoleNotFound, "Team role")
}

// Create handles POST /api/team-roles
func (h *TeamRoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd operations.CreateTeamRoleCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	result := h.createUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusCreated)
}

// Update handles PUT /api/team-roles/{id}
func (h *TeamRoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd operations.UpdateTeamRoleCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.ID = chi.URLParam(r, "id")

	result := h.updateUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}

// Delete handles DELETE /api/team-roles/{id}
func (h *TeamRoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cmd := operations.DeleteTeamRoleCommand{ID: chi.URLParam(r, "id")}

	result := h.deleteUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}

// Grant handles PUT /api/team-roles/{id}/permissions/{permissionId}
func (h *TeamRoleHandler) Grant(w http.ResponseWriter, r *http.Request) {
	cmd := operations.TeamRolePermissionCommand{
		TeamRoleID:   chi.URLParam(r, "id"),
		PermissionID: chi.URLParam(r, "permissionId"),
	}

	result := h.grantUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusCreated)
}

// Revoke handles DELETE /api/team-roles/{id}/permissions/{permissionId}
func (h *TeamRoleHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	cmd := operations.TeamRolePermissionCommand{
		TeamRoleID:   chi.URLParam(r, "id"),
		PermissionID: chi.URLParam(r, "permissionId"),
	}

	result := h.revokeUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}
