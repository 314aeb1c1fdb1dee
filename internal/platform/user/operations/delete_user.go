package operations

import (
	"context"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/user"
)

// DeleteUserCommand contains the ID of the user to delete
type DeleteUserCommand struct {
	ID string `json:"id"`
}

// DeleteUserUseCase removes a user with their direct grants and every
// view and team membership.
type DeleteUserUseCase struct {
	repo        user.Repository
	memberships membership.Repository
	unitOfWork  common.UnitOfWork
}

// NewDeleteUserUseCase creates a new DeleteUserUseCase
func NewDeleteUserUseCase(repo user.Repository, memberships membership.Repository, uow common.UnitOfWork) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		repo:        repo,
		memberships: memberships,
		unitOfWork:  uow,
	}
}

// Execute deletes the user
func (uc *DeleteUserUseCase) Execute(
	ctx context.Context,
	cmd DeleteUserCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeUserNotFound, "User not found", map[string]any{"id": cmd.ID}),
		)
	}

	grants, err := uc.repo.FindPermissions(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find user permissions", err))
	}
	teamMemberships, err := uc.memberships.FindTeamMembershipsByUser(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find team memberships", err))
	}
	viewMemberships, err := uc.memberships.FindViewMembershipsByUser(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find view memberships", err))
	}

	var changes common.Changes
	changes.Delete(existing).Record(events.NewDeleted(execCtx, existing))
	for _, g := range grants {
		changes.Delete(g).Record(events.NewDeleted(execCtx, g))
	}
	for _, m := range teamMemberships {
		changes.Delete(m).Record(events.NewDeleted(execCtx, m))
	}
	for _, m := range viewMemberships {
		changes.Delete(m).Record(events.NewDeleted(execCtx, m))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
