package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/role/operations"
	"go.player.tech/internal/platform/user"
)

var (
	readRoles   = Static(authorization.Requirement{System: []authorization.SystemPermission{authorization.ViewRoles, authorization.ManageRoles}})
	manageRoles = Static(authorization.Requirement{System: []authorization.SystemPermission{authorization.ManageRoles}})
)

// RoleHandler handles system role endpoints using UseCases
type RoleHandler struct {
	repo   role.Repository
	guard  *Guard
	logger *slog.Logger

	createUseCase *operations.CreateRoleUseCase
	updateUseCase *operations.UpdateRoleUseCase
	deleteUseCase *operations.DeleteRoleUseCase
	grantUseCase  *operations.AddPermissionToRoleUseCase
	revokeUseCase *operations.RemovePermissionFromRoleUseCase
}

// NewRoleHandler creates a new role handler with UseCases
func NewRoleHandler(
	repo role.Repository,
	permissions permission.Repository,
	users user.Repository,
	uow common.UnitOfWork,
	guard *Guard,
	logger *slog.Logger,
) *RoleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleHandler{
		repo:          repo,
		guard:         guard,
		logger:        logger,
		createUseCase: operations.NewCreateRoleUseCase(repo, uow),
		updateUseCase: operations.NewUpdateRoleUseCase(repo, uow),
		deleteUseCase: operations.NewDeleteRoleUseCase(repo, users, uow),
		grantUseCase:  operations.NewAddPermissionToRoleUseCase(repo, permissions, uow),
		revokeUseCase: operations.NewRemovePermissionFromRoleUseCase(repo, permissions, uow),
	}
}

// Routes returns the router for role endpoints
func (h *RoleHandler) Routes() chi.Router {
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

// List handles GET /api/roles
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list roles", "error", err)
		WriteInternalError(w, "Failed to list roles")
		return
	}
	WriteJSON(w, http.StatusOK, roles)
}

// Get handles GET /api/roles/{id}
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	WriteLookup(w, h.logger, found, err, common.ErrCodeRoleNotFound, "Role")
}

// ListPermissions handles GET /api/roles/{id}/permissions
func (h *RoleHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.repo.FindByID(r.Context(), id); err != nil {
		WriteLookup(w, h.logger, nil, err, common.ErrCodeRoleNotFound, "Role")
		return
	}
	grants, err := h.repo.FindPermissions(r.Context(), id)
	WriteLookup(w, h.logger, grants, err, common.ErrCodeRoleNotFound, "Role")
}

// Create handles POST /api/roles
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd operations.CreateRoleCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	result := h.createUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusCreated)
}

// Update handles PUT /api/roles/{id}
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd operations.UpdateRoleCommand
	if err := DecodeJSON(r, &cmd); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd.ID = chi.URLParam(r, "id")

	result := h.updateUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}

// Delete handles DELETE /api/roles/{id}
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cmd := operations.DeleteRoleCommand{ID: chi.URLParam(r, "id")}

	result := h.deleteUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}

// Grant handles PUT /api/roles/{id}/permissions/{permissionId}
func (h *RoleHandler) Grant(w http.ResponseWriter, r *http.Request) {
	cmd := operations.RolePermissionCommand{
		RoleID:       chi.URLParam(r, "id"),
		PermissionID: chi.URLParam(r, "permissionId"),
	}

	result := h.grantUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusCreated)
}

// Revoke handles DELETE /api/roles/{id}/permissions/{permissionId}
func (h *RoleHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	cmd := operations.RolePermissionCommand{
		RoleID:       chi.URLParam(r, "id"),
		PermissionID: chi.URLParam(r, "permissionId"),
	}

	result := h.revokeUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}

func executionContext(r *http.Request) *common.ExecutionContext {
	return common.ExecutionContextFromRequest(r, GetPrincipalID(r.Context()))
}
