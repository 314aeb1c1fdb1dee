package operations

import (
	"context"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
)

// DeleteApplicationCommand contains the ID of the application to delete
type DeleteApplicationCommand struct {
	ID string `json:"id"`
}

// DeleteApplicationUseCase deletes an application and its instances
type DeleteApplicationUseCase struct {
	repo       application.Repository
	unitOfWork common.UnitOfWork
}

// NewDeleteApplicationUseCase creates a new DeleteApplicationUseCase
func NewDeleteApplicationUseCase(repo application.Repository, uow common.UnitOfWork) *DeleteApplicationUseCase {
	return &DeleteApplicationUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute deletes the application
func (uc *DeleteApplicationUseCase) Execute(
	ctx context.Context,
	cmd DeleteApplicationCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	app, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeEntityNotFound, "Application not found", map[string]any{"id": cmd.ID}),
		)
	}
	instances, err := uc.repo.FindInstancesByApplication(ctx, app.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find application instances", err))
	}

	var changes common.Changes
	changes.Delete(app).Record(events.NewDeleted(execCtx, app))
	for _, i := range instances {
		changes.Delete(i).Record(events.NewDeleted(execCtx, i))
	}
	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
