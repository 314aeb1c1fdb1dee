package operations

import (
	"context"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teamrole"
)

// DeleteTeamRoleCommand contains the ID of the team role to delete
type DeleteTeamRoleCommand struct {
	ID string `json:"id"`
}

// DeleteTeamRoleUseCase deletes a team role together with its grants.
// Teams and membership overrides pointing at it are cleared in the same
// commit.
type DeleteTeamRoleUseCase struct {
	repo        teamrole.Repository
	teams       team.Repository
	memberships membership.Repository
	defaults    teamrole.Defaults
	unitOfWork  common.UnitOfWork
}

// NewDeleteTeamRoleUseCase creates a new DeleteTeamRoleUseCase
func NewDeleteTeamRoleUseCase(
	repo teamrole.Repository,
	teams team.Repository,
	memberships membership.Repository,
	defaults teamrole.Defaults,
	uow common.UnitOfWork,
) *DeleteTeamRoleUseCase {
	return &DeleteTeamRoleUseCase{
		repo:        repo,
		teams:       teams,
		memberships: memberships,
		defaults:    defaults,
		unitOfWork:  uow,
	}
}

// Execute deletes the team role
func (uc *DeleteTeamRoleUseCase) Execute(
	ctx context.Context,
	cmd DeleteTeamRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, failure := loadMutable(ctx, uc.repo, cmd.ID)
	if failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}
	if uc.defaults.Protects(existing.Name) {
		return common.Failure[common.DomainEvent](
			common.ConflictError(common.ErrCodeDefaultRoleProtected, "Default team roles cannot be deleted",
				map[string]any{"id": existing.ID, "name": existing.Name}),
		)
	}

	grants, err := uc.repo.FindPermissions(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find team role permissions", err))
	}
	teams, err := uc.teams.FindByRole(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find teams using team role", err))
	}
	overrides, err := uc.memberships.FindTeamMembershipsByRole(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find team role overrides", err))
	}

	var changes common.Changes
	changes.Delete(existing).Record(events.NewDeleted(execCtx, existing))
	for _, g := range grants {
		changes.Delete(g).Record(events.NewDeleted(execCtx, g))
	}
	now := time.Now()
	for _, t := range teams {
		updated := *t
		updated.RoleID = ""
		updated.UpdatedAt = now
		changes.Save(&updated).Record(events.NewUpdated(execCtx, t, &updated))
	}
	for _, m := range overrides {
		updated := *m
		updated.RoleID = ""
		updated.UpdatedAt = now
		changes.Save(&updated).Record(events.NewUpdated(execCtx, m, &updated))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
