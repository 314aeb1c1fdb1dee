package operations

import (
	"context"
	"errors"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
)

// RolePermissionCommand names one (role, permission) pair
type RolePermissionCommand struct {
	RoleID       string `json:"roleId"`
	PermissionID string `json:"permissionId"`
}

// AddPermissionToRoleUseCase grants a permission to a role. Granting a pair
// that already exists fails with GRANT_EXISTS and writes nothing.
type AddPermissionToRoleUseCase struct {
	repo        role.Repository
	permissions permission.Repository
	unitOfWork  common.UnitOfWork
}

// NewAddPermissionToRoleUseCase creates a new AddPermissionToRoleUseCase
func NewAddPermissionToRoleUseCase(repo role.Repository, permissions permission.Repository, uow common.UnitOfWork) *AddPermissionToRoleUseCase {
	return &AddPermissionToRoleUseCase{
		repo:        repo,
		permissions: permissions,
		unitOfWork:  uow,
	}
}

// Execute grants the permission
func (uc *AddPermissionToRoleUseCase) Execute(
	ctx context.Context,
	cmd RolePermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if failure := checkPair(ctx, uc.repo, uc.permissions, cmd); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	_, err := uc.repo.FindPermission(ctx, cmd.RoleID, cmd.PermissionID)
	if err == nil {
		return common.Failure[common.DomainEvent](
			common.ConflictError(common.ErrCodeGrantExists, "Role already has this permission",
				map[string]any{"roleId": cmd.RoleID, "permissionId": cmd.PermissionID}),
		)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to check role permission", err))
	}

	grant := &role.RolePermission{
		ID:           ids.New(),
		RoleID:       cmd.RoleID,
		PermissionID: cmd.PermissionID,
		CreatedAt:    time.Now(),
	}
	return uc.unitOfWork.Commit(ctx, grant, events.NewCreated(execCtx, grant), cmd)
}

// RemovePermissionFromRoleUseCase revokes a permission from a role
type RemovePermissionFromRoleUseCase struct {
	repo        role.Repository
	permissions permission.Repository
	unitOfWork  common.UnitOfWork
}

// NewRemovePermissionFromRoleUseCase creates a new RemovePermissionFromRoleUseCase
func NewRemovePermissionFromRoleUseCase(repo role.Repository, permissions permission.Repository, uow common.UnitOfWork) *RemovePermissionFromRoleUseCase {
	return &RemovePermissionFromRoleUseCase{
		repo:        repo,
		permissions: permissions,
		unitOfWork:  uow,
	}
}

// Execute revokes the permission
func (uc *RemovePermissionFromRoleUseCase) Execute(
	ctx context.Context,
	cmd RolePermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if failure := checkPair(ctx, uc.repo, uc.permissions, cmd); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	grant, err := uc.repo.FindPermission(ctx, cmd.RoleID, cmd.PermissionID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeGrantNotFound, "Role does not have this permission",
				map[string]any{"roleId": cmd.RoleID, "permissionId": cmd.PermissionID}),
		)
	}
	return uc.unitOfWork.CommitDelete(ctx, grant, events.NewDeleted(execCtx, grant), cmd)
}

// checkPair verifies both ends of a grant exist.
func checkPair(ctx context.Context, roles role.Repository, permissions permission.Repository, cmd RolePermissionCommand) *common.UseCaseError {
	if _, err := roles.FindByID(ctx, cmd.RoleID); err != nil {
		return common.LookupError(err, common.ErrCodeRoleNotFound, "Role not found", map[string]any{"id": cmd.RoleID})
	}
	if _, err := permissions.FindByID(ctx, cmd.PermissionID); err != nil {
		return common.LookupError(err, common.ErrCodePermissionNotFound, "Permission not found", map[string]any{"id": cmd.PermissionID})
	}
	return nil
}
