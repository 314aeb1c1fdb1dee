package operations

import (
	"context"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/user"
)

// DeleteRoleCommand contains the data needed to delete a role
type DeleteRoleCommand struct {
	ID string `json:"id"`
}

// DeleteRoleUseCase deletes a role and its grants, and unassigns it from
// its users
type DeleteRoleUseCase struct {
	repo       role.Repository
	users      user.Repository
	unitOfWork common.UnitOfWork
}

// NewDeleteRoleUseCase creates a new DeleteRoleUseCase
func NewDeleteRoleUseCase(repo role.Repository, users user.Repository, uow common.UnitOfWork) *DeleteRoleUseCase {
	return &DeleteRoleUseCase{
		repo:       repo,
		users:      users,
		unitOfWork: uow,
	}
}

// Execute deletes a role
func (uc *DeleteRoleUseCase) Execute(
	ctx context.Context,
	cmd DeleteRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeRoleNotFound, "Role not found", map[string]any{"id": cmd.ID}),
		)
	}
	if existing.Immutable {
		return common.Failure[common.DomainEvent](
			common.ForbiddenError(common.ErrCodeImmutable, "Role is immutable", map[string]any{"id": cmd.ID}),
		)
	}

	grants, err := uc.repo.FindPermissions(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find role permissions", err))
	}
	holders, err := uc.users.FindByRole(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find role users", err))
	}

	var changes common.Changes
	changes.Delete(existing).Record(events.NewDeleted(execCtx, existing))
	for _, g := range grants {
		changes.Delete(g).Record(events.NewDeleted(execCtx, g))
	}
	now := time.Now()
	for _, u := range holders {
		updated := *u
		updated.RoleID = ""
		updated.UpdatedAt = now
		changes.Save(&updated).Record(events.NewUpdated(execCtx, u, &updated))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
