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
	"go.player.tech/internal/platform/user"
)

// UserPermissionCommand names one (user, permission) pair
type UserPermissionCommand struct {
	UserID       string `json:"userId"`
	PermissionID string `json:"permissionId"`
}

// AddUserPermissionUseCase grants a system permission directly to a user
type AddUserPermissionUseCase struct {
	repo        user.Repository
	permissions permission.Repository
	unitOfWork  common.UnitOfWork
}

// NewAddUserPermissionUseCase creates a new AddUserPermissionUseCase
func NewAddUserPermissionUseCase(repo user.Repository, permissions permission.Repository, uow common.UnitOfWork) *AddUserPermissionUseCase {
	return &AddUserPermissionUseCase{
		repo:        repo,
		permissions: permissions,
		unitOfWork:  uow,
	}
}

// Execute grants the permission
func (uc *AddUserPermissionUseCase) Execute(
	ctx context.Context,
	cmd UserPermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if failure := checkPair(ctx, uc.repo, uc.permissions, cmd); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	_, err := uc.repo.FindPermission(ctx, cmd.UserID, cmd.PermissionID)
	if err == nil {
		return common.Failure[common.DomainEvent](
			common.ConflictError(common.ErrCodeGrantExists, "User already has this permission",
				map[string]any{"userId": cmd.UserID, "permissionId": cmd.PermissionID}),
		)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to check user permission", err))
	}

	grant := &user.PermissionAssignment{
		ID:           ids.New(),
		UserID:       cmd.UserID,
		PermissionID: cmd.PermissionID,
		CreatedAt:    time.Now(),
	}
	return uc.unitOfWork.Commit(ctx, grant, events.NewCreated(execCtx, grant), cmd)
}

// RemoveUserPermissionUseCase revokes a direct user grant
type RemoveUserPermissionUseCase struct {
	repo        user.Repository
	permissions permission.Repository
	unitOfWork  common.UnitOfWork
}

// NewRemoveUserPermissionUseCase creates a new RemoveUserPermissionUseCase
func NewRemoveUserPermissionUseCase(repo user.Repository, permissions permission.Repository, uow common.UnitOfWork) *RemoveUserPermissionUseCase {
	return &RemoveUserPermissionUseCase{
		repo:        repo,
		permissions: permissions,
		unitOfWork:  uow,
	}
}

// Execute revokes the grant
func (uc *RemoveUserPermissionUseCase) Execute(
	ctx context.Context,
	cmd UserPermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	if failure := checkPair(ctx, uc.repo, uc.permissions, cmd); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	grant, err := uc.repo.FindPermission(ctx, cmd.UserID, cmd.PermissionID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeGrantNotFound, "User does not have this permission",
				map[string]any{"userId": cmd.UserID, "permissionId": cmd.PermissionID}),
		)
	}
	return uc.unitOfWork.CommitDelete(ctx, grant, events.NewDeleted(execCtx, grant), cmd)
}

func checkPair(ctx context.Context, users user.Repository, permissions permission.Repository, cmd UserPermissionCommand) *common.UseCaseError {
	if _, err := users.FindByID(ctx, cmd.UserID); err != nil {
		return common.LookupError(err, common.ErrCodeUserNotFound, "User not found", map[string]any{"id": cmd.UserID})
	}
	if _, err := permissions.FindByID(ctx, cmd.PermissionID); err != nil {
		return common.LookupError(err, common.ErrCodePermissionNotFound, "Permission not found", map[string]any{"id": cmd.PermissionID})
	}
	return nil
}
