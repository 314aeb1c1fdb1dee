package operations

import (
	"context"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/permission"
)

// UpdatePermissionCommand contains the data needed to update a permission.
// The name is the permission's identity inside claims and cannot change.
type UpdatePermissionCommand struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// UpdatePermissionUseCase handles updating a permission
type UpdatePermissionUseCase struct {
	repo       permission.Repository
	unitOfWork common.UnitOfWork
}

// NewUpdatePermissionUseCase creates a new UpdatePermissionUseCase
func NewUpdatePermissionUseCase(repo permission.Repository, uow common.UnitOfWork) *UpdatePermissionUseCase {
	return &UpdatePermissionUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute updates a permission
func (uc *UpdatePermissionUseCase) Execute(
	ctx context.Context,
	cmd UpdatePermissionCommand,
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

	updated := *existing
	updated.Description = cmd.Description
	updated.UpdatedAt = time.Now()

	return uc.unitOfWork.Commit(ctx, &updated, events.NewUpdated(execCtx, existing, &updated), cmd)
}
