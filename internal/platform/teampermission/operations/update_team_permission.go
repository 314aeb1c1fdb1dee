package operations

import (
	"context"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/teampermission"
)

// UpdateTeamPermissionCommand contains the data needed to update a team
// permission. Name and Kind identify the permission inside claims and
// cannot change.
type UpdateTeamPermissionCommand struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// UpdateTeamPermissionUseCase handles updating a team permission
type UpdateTeamPermissionUseCase struct {
	repo       teampermission.Repository
	unitOfWork common.UnitOfWork
}

// NewUpdateTeamPermissionUseCase creates a new UpdateTeamPermissionUseCase
func NewUpdateTeamPermissionUseCase(repo teampermission.Repository, uow common.UnitOfWork) *UpdateTeamPermissionUseCase {
	return &UpdateTeamPermissionUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute updates a team permission
func (uc *UpdateTeamPermissionUseCase) Execute(
	ctx context.Context,
	cmd UpdateTeamPermissionCommand,
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

	updated := *existing
	updated.Description = cmd.Description
	updated.UpdatedAt = time.Now()

	return uc.unitOfWork.Commit(ctx, &updated, events.NewUpdated(execCtx, existing, &updated), cmd)
}
