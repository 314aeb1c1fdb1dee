package operations

import (
	"context"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/team"
)

// CreateInstanceCommand places an application on a team's launcher
type CreateInstanceCommand struct {
	TeamID        string `json:"teamId"`
	ApplicationID string `json:"applicationId"`
	DisplayOrder  int    `json:"displayOrder,omitempty"`
}

// CreateInstanceUseCase handles creating an application instance. The
// application and the team must belong to the same view.
type CreateInstanceUseCase struct {
	repo       application.Repository
	teams      team.Repository
	unitOfWork common.UnitOfWork
}

// NewCreateInstanceUseCase creates a new CreateInstanceUseCase
func NewCreateInstanceUseCase(repo application.Repository, teams team.Repository, uow common.UnitOfWork) *CreateInstanceUseCase {
	return &CreateInstanceUseCase{
		repo:       repo,
		teams:      teams,
		unitOfWork: uow,
	}
}

// Execute creates the instance
func (uc *CreateInstanceUseCase) Execute(
	ctx context.Context,
	cmd CreateInstanceCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	t, err := uc.teams.FindByID(ctx, cmd.TeamID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeTeamNotFound, "Team not found", map[string]any{"id": cmd.TeamID}),
		)
	}
	app, err := uc.repo.FindByID(ctx, cmd.ApplicationID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeEntityNotFound, "Application not found", map[string]any{"id": cmd.ApplicationID}),
		)
	}
	if app.ViewID != t.ViewID {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeInvalidValue, "Application belongs to another view",
				map[string]any{"teamId": t.ID, "applicationId": app.ID}),
		)
	}

	instance := &application.Instance{
		ID:            ids.New(),
		TeamID:        t.ID,
		ApplicationID: app.ID,
		DisplayOrder:  cmd.DisplayOrder,
		CreatedAt:     time.Now(),
	}
	return uc.unitOfWork.Commit(ctx, instance, events.NewCreated(execCtx, instance), cmd)
}

// DeleteInstanceCommand contains the ID of the instance to delete
type DeleteInstanceCommand struct {
	ID string `json:"id"`
}

// DeleteInstanceUseCase removes an application from a team's launcher
type DeleteInstanceUseCase struct {
	repo       application.Repository
	unitOfWork common.UnitOfWork
}

// NewDeleteInstanceUseCase creates a new DeleteInstanceUseCase
func NewDeleteInstanceUseCase(repo application.Repository, uow common.UnitOfWork) *DeleteInstanceUseCase {
	return &DeleteInstanceUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute deletes the instance
func (uc *DeleteInstanceUseCase) Execute(
	ctx context.Context,
	cmd DeleteInstanceCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	instance, err := uc.repo.FindInstanceByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeEntityNotFound, "Application instance not found", map[string]any{"id": cmd.ID}),
		)
	}
	return uc.unitOfWork.CommitDelete(ctx, instance, events.NewDeleted(execCtx, instance), cmd)
}
