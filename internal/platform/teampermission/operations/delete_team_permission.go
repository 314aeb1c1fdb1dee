package operations

import (
	"context"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
)

// DeleteTeamPermissionCommand contains the data needed to delete a team permission
type DeleteTeamPermissionCommand struct {
	ID string `json:"id"`
}

// DeleteTeamPermissionUseCase deletes a team permission together with every
// team role grant and team assignment of it
type DeleteTeamPermissionUseCase struct {
	repo       teampermission.Repository
	teamRoles  teamrole.Repository
	teams      team.Repository
	unitOfWork common.UnitOfWork
}

// NewDeleteTeamPermissionUseCase creates a new DeleteTeamPermissionUseCase
func NewDeleteTeamPermissionUseCase(repo teampermission.Repository, teamRoles teamrole.Repository, teams team.Repository, uow common.UnitOfWork) *DeleteTeamPermissionUseCase {
	return &DeleteTeamPermissionUseCase{
		repo:       repo,
		teamRoles:  teamRoles,
		teams:      teams,
		unitOfWork: uow,
	}
}

// Execute deletes a team permission
func (uc *DeleteTeamPermissionUseCase) Execute(
	ctx context.Context,
	cmd DeleteTeamPermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodePermissionNotFound, "Team permission not found", map[string]any{"id": cmd.ID}),
		)
	}
	if existing.Immutable {
		return common.Failure[common.DomainEvent](
			common.ForbiddenError(common.ErrCodeImmutable, "Team permission is immutable", map[string]any{"id": cmd.ID}),
		)
	}

	roleGrants, err := uc.teamRoles.FindPermissionsByPermission(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find team role grants", err))
	}
	teamGrants, err := uc.teams.FindPermissionsByPermission(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find team assignments", err))
	}

	var changes common.Changes
	changes.Delete(existing).Record(events.NewDeleted(execCtx, existing))
	for _, g := range roleGrants {
		changes.Delete(g).Record(events.NewDeleted(execCtx, g))
	}
	for _, g := range teamGrants {
		changes.Delete(g).Record(events.NewDeleted(execCtx, g))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
