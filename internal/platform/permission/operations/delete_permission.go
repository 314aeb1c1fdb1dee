package operations

import (
	"context"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/user"
)

// DeletePermissionCommand contains the data needed to delete a permission
type DeletePermissionCommand struct {
	ID string `json:"id"`
}

// DeletePermissionUseCase deletes a permission together with every role and
// user grant of it
type DeletePermissionUseCase struct {
	repo       permission.Repository
	roles      role.Repository
	users      user.Repository
	unitOfWork common.UnitOfWork
}

// NewDeletePermissionUseCase creates a new DeletePermissionUseCase
func NewDeletePermissionUseCase(repo permission.Repository, roles role.Repository, users user.Repository, uow common.UnitOfWork) *DeletePermissionUseCase {
	return &DeletePermissionUseCase{
		repo:       repo,
		roles:      roles,
		users:      users,
		unitOfWork: uow,
	}
}

// Execute deletes a permission
func (uc *DeletePermissionUseCase) Execute(
	ctx context.Context,
	cmd DeletePermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodePermissionNotFound, "Permission not found", map[string]any{"id": cmd.ID}),
		)
	}
	if existing.Immutable {
		return common.Failure[common.DomainEvent](
			common.ForbiddenError(common.ErrCodeImmutable, "Permission is immutable", map[string]any{"id": cmd.ID}),
		)
	}

	roleGrants, err := uc.roles.FindPermissionsByPermission(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find role grants", err))
	}
	userGrants, err := uc.users.FindPermissionsByPermission(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find user grants", err))
	}

	var changes common.Changes
	changes.Delete(existing).Record(events.NewDeleted(execCtx, existing))
	for _, g := range roleGrants {
		changes.Delete(g).Record(events.NewDeleted(execCtx, g))
	}
	for _, g := range userGrants {
		changes.Delete(g).Record(events.NewDeleted(execCtx, g))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
