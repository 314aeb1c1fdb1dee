package operations

import (
	"context"
	"strings"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/view"
)

// UpdateViewCommand contains the data needed to update a view.
// Nil fields are left unchanged.
type UpdateViewCommand struct {
	ID          string       `json:"id"`
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Status      *view.Status `json:"status,omitempty"`
}

// UpdateViewUseCase handles updating a view
type UpdateViewUseCase struct {
	repo       view.Repository
	unitOfWork common.UnitOfWork
}

// NewUpdateViewUseCase creates a new UpdateViewUseCase
func NewUpdateViewUseCase(repo view.Repository, uow common.UnitOfWork) *UpdateViewUseCase {
	return &UpdateViewUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute updates the view
func (uc *UpdateViewUseCase) Execute(
	ctx context.Context,
	cmd UpdateViewCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeViewNotFound, "View not found", map[string]any{"id": cmd.ID}),
		)
	}

	updated := *existing
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return common.Failure[common.DomainEvent](
				common.ValidationError(common.ErrCodeRequired, "View name cannot be empty", map[string]any{"field": "name"}),
			)
		}
		updated.Name = name
	}
	if cmd.Description != nil {
		updated.Description = *cmd.Description
	}
	if cmd.Status != nil {
		if *cmd.Status != view.StatusActive && *cmd.Status != view.StatusInactive {
			return common.Failure[common.DomainEvent](
				common.ValidationError(common.ErrCodeInvalidValue, "Unknown view status", map[string]any{"status": *cmd.Status}),
			)
		}
		updated.Status = *cmd.Status
	}
	updated.UpdatedAt = time.Now()

	return uc.unitOfWork.Commit(ctx, &updated, events.NewUpdated(execCtx, existing, &updated), cmd)
}
