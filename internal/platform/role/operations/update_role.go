package operations

import (
	"context"
	"strings"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/role"
)

// UpdateRoleCommand contains the data needed to update a role.
// Nil fields are left unchanged.
type UpdateRoleCommand struct {
	ID             string  `json:"id"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	AllPermissions *bool   `json:"allPermissions,omitempty"`
}

// UpdateRoleUseCase handles updating a role
type UpdateRoleUseCase struct {
	repo       role.Repository
	unitOfWork common.UnitOfWork
}

// NewUpdateRoleUseCase creates a new UpdateRoleUseCase
func NewUpdateRoleUseCase(repo role.Repository, uow common.UnitOfWork) *UpdateRoleUseCase {
	return &UpdateRoleUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute updates a role
func (uc *UpdateRoleUseCase) Execute(
	ctx context.Context,
	cmd UpdateRoleCommand,
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

	updated := *existing
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return common.Failure[common.DomainEvent](
				common.ValidationError(common.ErrCodeRequired, "Role name cannot be empty", map[string]any{"field": "name"}),
			)
		}
		if name != existing.Name {
			if failure := checkNameFree(ctx, uc.repo, name, existing.ID); failure != nil {
				return common.Failure[common.DomainEvent](failure)
			}
		}
		updated.Name = name
	}
	if cmd.Description != nil {
		updated.Description = *cmd.Description
	}
	if cmd.AllPermissions != nil {
		updated.AllPermissions = *cmd.AllPermissions
	}
	updated.UpdatedAt = time.Now()

	return uc.unitOfWork.Commit(ctx, &updated, events.NewUpdated(execCtx, existing, &updated), cmd)
}
