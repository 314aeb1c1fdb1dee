package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	membershipops "go.player.tech/internal/platform/membership/operations"
	"go.player.tech/internal/platform/team"
	teamops "go.player.tech/internal/platform/team/operations"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
)

// onTeam requires ManageViews, or one of perms on the team in the route.
func onTeam(perms ...authorization.TeamPermission) RequirementFunc {
	return func(r *http.Request) authorization.Requirement {
		return authorization.Requirement{
			System:   []authorization.SystemPermission{authorization.ManageViews},
			Team:     perms,
			Resource: authorization.Ref(authorization.ResourceTeam, chi.URLParam(r, "id")),
		}
	}
}

// onTeamView requires ManageViews or ManageRoles, or ManageView on the View
// owning the team in the route. Changing what a team grants is View
// management.
func onTeamView(r *http.Request) authorization.Requirement {
	return authorization.Requirement{
		System:   []authorization.SystemPermission{authorization.ManageViews, authorization.ManageRoles},
		View:     []authorization.ViewPermission{authorization.ManageView},
		Resource: authorization.Ref(authorization.ResourceTeam, chi.URLParam(r, "id")),
	}
}

// AddMemberRequest is the body of POST /api/teams/{id}/memberships
type AddMemberRequest struct {
	UserID string `json:"userId"`
	RoleID string `json:"roleId,omitempty"`
}

// TeamHandler handles team grant and membership endpoints
type TeamHandler struct {
	teams       team.Repository
	memberships membership.Repository
	guard       *Guard
	delegation  *authorization.Delegation
	logger      *slog.Logger

	grantUseCase  *teamops.AddTeamPermissionUseCase
	revokeUseCase *teamops.RemoveTeamPermissionUseCase
	addUseCase    *membershipops.AddUserToTeamUseCase
	removeUseCase *membershipops.RemoveUserFromTeamUseCase
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(
	teams team.Repository,
	permissions teampermission.Repository,
	memberships membership.Repository,
	users user.Repository,
	teamRoles teamrole.Repository,
	uow common.UnitOfWork,
	guard *Guard,
	logger *slog.Logger,
) *TeamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamHandler{
		teams:         teams,
		memberships:   memberships,
		guard:         guard,
		delegation:    authorization.NewDelegation(permissions, teamRoles),
		logger:        logger,
		grantUseCase:  teamops.NewAddTeamPermissionUseCase(teams, permissions, uow),
		revokeUseCase: teamops.NewRemoveTeamPermissionUseCase(teams, permissions, uow),
		addUseCase:    membershipops.NewAddUserToTeamUseCase(memberships, teams, users, teamRoles, uow),
		removeUseCase: membershipops.NewRemoveUserFromTeamUseCase(memberships, uow),
	}
}

// Routes returns the router for team endpoints
func (h *TeamHandler) Routes() chi.Router {
	r := chi.NewRouter()

	readTeam := h.guard.Require(onTeam(authorization.ViewTeam, authorization.EditTeam, authorization.ManageTeam))
	manageTeam := h.guard.Require(onTeam(authorization.ManageTeam))
	manageGrants := h.guard.Require(onTeamView)

	r.With(readTeam).Get("/{id}", h.Get)
	r.With(readTeam).Get("/{id}/permissions", h.ListPermissions)
	r.With(readTeam).Get("/{id}/memberships", h.ListMemberships)

	r.With(manageGrants).Put("/{id}/permissions/{permissionId}", h.Grant)
	r.With(manageGrants).Delete("/{id}/permissions/{permissionId}", h.Revoke)
	r.With(manageTeam).Post("/{id}/memberships", h.AddMember)
	r.With(manageTeam).Delete("/{id}/memberships/{userId}", h.RemoveMember)

	return r
}

// Get handles GET /api/teams/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.teams.FindByID(r.Context(), chi.URLParam(r, "id"))
	WriteLookup(w, h.logger, found, err, common.ErrCodeTeamNotFound, "Team")
}

// ListPermissions handles GET /api/teams/{id}/permissions
func (h *TeamHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.teams.FindPermissions(r.Context(), chi.URLParam(r, "id"))
	WriteLookup(w, h.logger, assignments, err, common.ErrCodeTeamNotFound, "Team")
}

// ListMemberships handles GET /api/teams/{id}/memberships
func (h *TeamHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberships.FindTeamMembershipsByTeam(r.Context(), chi.URLParam(r, "id"))
	WriteLookup(w, h.logger, members, err, common.ErrCodeTeamNotFound, "Team")
}

// Grant handles PUT /api/teams/{id}/permissions/{permissionId}
func (h *TeamHandler) Grant(w http.ResponseWriter, r *http.Request) {
	cmd := teamops.TeamPermissionCommand{
		TeamID:       chi.URLParam(r, "id"),
		PermissionID: chi.URLParam(r, "permissionId"),
	}

	conferred, err := h.delegation.Permission(r.Context(), cmd.PermissionID)
	if err != nil {
		h.logger.Error("Failed to load team permission", "permissionId", cmd.PermissionID, "error", err)
		WriteInternalError(w, "Failed to load team permission")
		return
	}
	if !h.withinGrantor(w, r, cmd.TeamID, conferred) {
		return
	}

	result := h.grantUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusCreated)
}

// Revoke handles DELETE /api/teams/{id}/permissions/{permissionId}
func (h *TeamHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	cmd := teamops.TeamPermissionCommand{
		TeamID:       chi.URLParam(r, "id"),
		PermissionID: chi.URLParam(r, "permissionId"),
	}

	result := h.revokeUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}

// AddMember handles POST /api/teams/{id}/memberships
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var body AddMemberRequest
	if err := DecodeJSON(r, &body); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	cmd := membershipops.AddUserToTeamCommand{
		TeamID: chi.URLParam(r, "id"),
		UserID: body.UserID,
		RoleID: body.RoleID,
	}

	if cmd.RoleID != "" {
		conferred, err := h.delegation.TeamRole(r.Context(), cmd.RoleID)
		if err != nil {
			h.logger.Error("Failed to load team role", "teamRoleId", cmd.RoleID, "error", err)
			WriteInternalError(w, "Failed to load team role")
			return
		}
		if !h.withinGrantor(w, r, cmd.TeamID, conferred) {
			return
		}
	}

	result := h.addUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusCreated)
}

// RemoveMember handles DELETE /api/teams/{id}/memberships/{userId}
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	cmd := membershipops.RemoveUserFromTeamCommand{
		TeamID: chi.URLParam(r, "id"),
		UserID: chi.URLParam(r, "userId"),
	}

	result := h.removeUseCase.Execute(r.Context(), cmd, executionContext(r))
	WriteUseCaseResult(w, result, http.StatusOK)
}

// withinGrantor writes a 403 and returns false when conferred goes beyond
// what the caller holds in the team's View. A missing team is left to the
// use case.
func (h *TeamHandler) withinGrantor(w http.ResponseWriter, r *http.Request, teamID string, conferred []authorization.ScopedPermission) bool {
	if len(conferred) == 0 {
		return true
	}
	t, err := h.teams.FindByID(r.Context(), teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	if err != nil {
		h.logger.Error("Failed to load team", "teamId", teamID, "error", err)
		WriteInternalError(w, "Failed to load team")
		return false
	}

	claims, err := h.guard.authz.Claims(r.Context(), GetPrincipalID(r.Context()))
	if err != nil {
		h.logger.Error("Failed to load caller claims", "error", err)
		WriteInternalError(w, "Failed to load permissions")
		return false
	}
	scope := authorization.Scope{ViewID: t.ViewID, TeamID: t.ID}
	if ucErr := h.delegation.Check(claims, scope, conferred); ucErr != nil {
		WriteUseCaseError(w, ucErr)
		return false
	}
	return true
}
