package operations

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/view"
)

// CreateTeamCommand contains the data needed to create a team.
// An empty RoleID selects the default team role.
type CreateTeamCommand struct {
	ViewID string `json:"viewId"`
	Name   string `json:"name"`
	RoleID string `json:"roleId,omitempty"`
}

// CreateTeamUseCase handles creating a team inside a view
type CreateTeamUseCase struct {
	views      view.Repository
	teamRoles  teamrole.Repository
	defaults   teamrole.Defaults
	unitOfWork common.UnitOfWork
}

// NewCreateTeamUseCase creates a new CreateTeamUseCase
func NewCreateTeamUseCase(views view.Repository, teamRoles teamrole.Repository, defaults teamrole.Defaults, uow common.UnitOfWork) *CreateTeamUseCase {
	return &CreateTeamUseCase{
		views:      views,
		teamRoles:  teamRoles,
		defaults:   defaults,
		unitOfWork: uow,
	}
}

// Execute creates the team
func (uc *CreateTeamUseCase) Execute(
	ctx context.Context,
	cmd CreateTeamCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Team name is required", map[string]any{"field": "name"}),
		)
	}
	if _, err := uc.views.FindByID(ctx, cmd.ViewID); err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeViewNotFound, "View not found", map[string]any{"id": cmd.ViewID}),
		)
	}

	roleID, failure := resolveRole(ctx, uc.teamRoles, cmd.RoleID, uc.defaults.Team)
	if failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	now := time.Now()
	t := &team.Team{
		ID:        ids.New(),
		Name:      name,
		ViewID:    cmd.ViewID,
		RoleID:    roleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return uc.unitOfWork.Commit(ctx, t, events.NewCreated(execCtx, t), cmd)
}

// resolveRole checks an explicit team role id, or looks up the role named
// fallback. A missing fallback role leaves the team without a role.
func resolveRole(ctx context.Context, repo teamrole.Repository, id, fallback string) (string, *common.UseCaseError) {
	if id != "" {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return "", common.LookupError(err, common.ErrCodeTeamRoleNotFound, "Team role not found", map[string]any{"id": id})
		}
		return id, nil
	}
	if fallback == "" {
		return "", nil
	}
	r, err := repo.FindByName(ctx, fallback)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", common.DatabaseError("Failed to find default team role", err)
	}
	return r.ID, nil
}
