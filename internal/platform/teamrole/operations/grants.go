package operations

import (
	"context"
	"errors"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
)

// TeamRolePermissionCommand names one (team role, team permission) pair
type TeamRolePermissionCommand struct {
	TeamRoleID   string `json:"teamRoleId"`
	PermissionID string `json:"permissionId"`
}

// AddPermissionToTeamRoleUseCase grants a team permission to a team role
type AddPermissionToTeamRoleUseCase struct {
	repo        teamrole.Repository
	permissions teampermission.Repository
	unitOfWork  common.UnitOfWork
}

// NewAddPermissionToTeamRoleUseCase creates a new AddPermissionToTeamRoleUseCase
func NewAddPermissionToTeamRoleUseCase(repo teamrole.Repository, permissions teampermission.Repository, uow common.UnitOfWork) *AddPermissionToTeamRoleUseCase {
	return &AddPermissionToTeamRoleUseCase{
		repo:        repo,
		permissions: permissions,
		unitOfWork:  uow,
	}
}

// Execute grants the permission
func (uc *AddPermissionToTeamRoleUseCase) Execute(
	ctx context.Context,
	cmd TeamRolePermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if failure := checkPair(ctx, uc.repo, uc.permissions, cmd); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	_, err := uc.repo.FindPermission(ctx, cmd.TeamRoleID, cmd.PermissionID)
	if err == nil {
		return common.Failure[common.DomainEvent](
			common.ConflictError(common.ErrCodeGrantExists, "Team role already has this permission",
				map[string]any{"teamRoleId": cmd.TeamRoleID, "permissionId": cmd.PermissionID}),
		)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to check team role permission", err))
	}

	grant := &teamrole.TeamRolePermission{
		ID:           ids.New(),
		TeamRoleID:   cmd.TeamRoleID,
		PermissionID: cmd.PermissionID,
		CreatedAt:    time.Now(),
	}
	return uc.unitOfWork.Commit(ctx, grant, events.NewCreated(execCtx, grant), cmd)
}

// RemovePermissionFromTeamRoleUseCase revokes a team permission from a team role
type RemovePermissionFromTeamRoleUseCase struct {
	repo        teamrole.Repository
	permissions teampermission.Repository
	unitOfWork  common.UnitOfWork
}

// NewRemovePermissionFromTeamRoleUseCase creates a new RemovePermissionFromTeamRoleUseCase
func NewRemovePermissionFromTeamRoleUseCase(repo teamrole.Repository, permissions teampermission.Repository, uow common.UnitOfWork) *RemovePermissionFromTeamRoleUseCase {
	return &RemovePermissionFromTeamRoleUseCase{
		repo:        repo,
		permissions: permissions,
		unitOfWork:  uow,
	}
}

// Execute revokes the permission
func (uc *RemovePermissionFromTeamRoleUseCase) Execute(
	ctx context.Context,
	cmd TeamRolePermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if failure := checkPair(ctx, uc.repo, uc.permissions, cmd); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	grant, err := uc.repo.FindPermission(ctx, cmd.TeamRoleID, cmd.PermissionID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeGrantNotFound, "Team role does not have this permission",
				map[string]any{"teamRoleId": cmd.TeamRoleID, "permissionId": cmd.PermissionID}),
		)
	}
	return uc.unitOfWork.CommitDelete(ctx, grant, events.NewDeleted(execCtx, grant), cmd)
}

func checkPair(ctx context.Context, roles teamrole.Repository, permissions teampermission.Repository, cmd TeamRolePermissionCommand) *common.UseCaseError {
	if _, err := roles.FindByID(ctx, cmd.TeamRoleID); err != nil {
		return common.LookupError(err, common.ErrCodeTeamRoleNotFound, "Team role not found", map[string]any{"id": cmd.TeamRoleID})
	}
	if _, err := permissions.FindByID(ctx, cmd.PermissionID); err != nil {
		return common.LookupError(err, common.ErrCodePermissionNotFound, "Team permission not found", map[string]any{"id": cmd.PermissionID})
	}
	return nil
}
