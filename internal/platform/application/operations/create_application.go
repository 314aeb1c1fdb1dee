package operations

import (
	"context"
	"strings"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/view"
)

// CreateApplicationCommand contains the data needed to add an application to a view
type CreateApplicationCommand struct {
	ViewID     string `json:"viewId"`
	Name       string `json:"name"`
	URL        string `json:"url,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Embeddable bool   `json:"embeddable,omitempty"`
}

// CreateApplicationUseCase handles creating an application
type CreateApplicationUseCase struct {
	views      view.Repository
	unitOfWork common.UnitOfWork
}

// NewCreateApplicationUseCase creates a new CreateApplicationUseCase
func NewCreateApplicationUseCase(views view.Repository, uow common.UnitOfWork) *CreateApplicationUseCase {
	return &CreateApplicationUseCase{
		views:      views,
		unitOfWork: uow,
	}
}

// Execute creates the application
func (uc *CreateApplicationUseCase) Execute(
	ctx context.Context,
	cmd CreateApplicationCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Application name is required", map[string]any{"field": "name"}),
		)
	}
	if _, err := uc.views.FindByID(ctx, cmd.ViewID); err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeViewNotFound, "View not found", map[string]any{"id": cmd.ViewID}),
		)
	}

	now := time.Now()
	app := &application.Application{
		ID:         ids.New(),
		Name:       name,
		ViewID:     cmd.ViewID,
		URL:        cmd.URL,
		Icon:       cmd.Icon,
		Embeddable: cmd.Embeddable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return uc.unitOfWork.Commit(ctx, app, events.NewCreated(execCtx, app), cmd)
}
