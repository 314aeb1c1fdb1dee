package operations

import (
	"context"
	"errors"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
)

// TeamPermissionCommand names one (team, team permission) pair
type TeamPermissionCommand struct {
	TeamID       string `json:"teamId"`
	PermissionID string `json:"permissionId"`
}

// AddTeamPermissionUseCase assigns a team permission directly to a team,
// on top of whatever its team role grants.
type AddTeamPermissionUseCase struct {
	repo        team.Repository
	permissions teampermission.Repository
	unitOfWork  common.UnitOfWork
}

// NewAddTeamPermissionUseCase creates a new AddTeamPermissionUseCase
func NewAddTeamPermissionUseCase(repo team.Repository, permissions teampermission.Repository, uow common.UnitOfWork) *AddTeamPermissionUseCase {
	return &AddTeamPermissionUseCase{
		repo:        repo,
		permissions: permissions,
		unitOfWork:  uow,
	}
}

// Execute assigns the permission
func (uc *AddTeamPermissionUseCase) Execute(
	ctx context.Context,
	cmd TeamPermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if failure := checkPair(ctx, uc.repo, uc.permissions, cmd); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	_, err := uc.repo.FindPermission(ctx, cmd.TeamID, cmd.PermissionID)
	if err == nil {
		return common.Failure[common.DomainEvent](
			common.ConflictError(common.ErrCodeGrantExists, "Team already has this permission",
				map[string]any{"teamId": cmd.TeamID, "permissionId": cmd.PermissionID}),
		)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to check team permission", err))
	}

	grant := &team.PermissionAssignment{
		ID:           ids.New(),
		TeamID:       cmd.TeamID,
		PermissionID: cmd.PermissionID,
		CreatedAt:    time.Now(),
	}
	return uc.unitOfWork.Commit(ctx, grant, events.NewCreated(execCtx, grant), cmd)
}

// RemoveTeamPermissionUseCase removes a direct team permission assignment
type RemoveTeamPermissionUseCase struct {
	repo        team.Repository
	permissions teampermission.Repository
	unitOfWork  common.UnitOfWork
}

// NewRemoveTeamPermissionUseCase creates a new RemoveTeamPermissionUseCase
func NewRemoveTeamPermissionUseCase(repo team.Repository, permissions teampermission.Repository, uow common.UnitOfWork) *RemoveTeamPermissionUseCase {
	return &RemoveTeamPermissionUseCase{
		repo:        repo,
		permissions: permissions,
		unitOfWork:  uow,
	}
}

// Execute removes the assignment
func (uc *RemoveTeamPermissionUseCase) Execute(
	ctx context.Context,
	cmd TeamPermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if failure := checkPair(ctx, uc.repo, uc.permissions, cmd); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	grant, err := uc.repo.FindPermission(ctx, cmd.TeamID, cmd.PermissionID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeGrantNotFound, "Team does not have this permission",
				map[string]any{"teamId": cmd.TeamID, "permissionId": cmd.PermissionID}),
		)
	}
	return uc.unitOfWork.CommitDelete(ctx, grant, events.NewDeleted(execCtx, grant), cmd)
}

func checkPair(ctx context.Context, teams team.Repository, permissions teampermission.Repository, cmd TeamPermissionCommand) *common.UseCaseError {
	if _, err := teams.FindByID(ctx, cmd.TeamID); err != nil {
		return common.LookupError(err, common.ErrCodeTeamNotFound, "Team not found", map[string]any{"id": cmd.TeamID})
	}
	if _, err := permissions.FindByID(ctx, cmd.PermissionID); err != nil {
		return common.LookupError(err, common.ErrCodePermissionNotFound, "Team permission not found", map[string]any{"id": cmd.PermissionID})
	}
	return nil
}
