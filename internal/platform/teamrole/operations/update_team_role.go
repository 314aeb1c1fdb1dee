package operations

import (
	"context"
	"strings"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/teamrole"
)

// UpdateTeamRoleCommand contains the data needed to update a team role.
// Nil fields are left unchanged.
type UpdateTeamRoleCommand struct {
	ID             string  `json:"id"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	AllPermissions *bool   `json:"allPermissions,omitempty"`
}

// UpdateTeamRoleUseCase handles updating a team role. The default team
// roles keep their names.
type UpdateTeamRoleUseCase struct {
	repo       teamrole.Repository
	defaults   teamrole.Defaults
	unitOfWork common.UnitOfWork
}

// NewUpdateTeamRoleUseCase creates a new UpdateTeamRoleUseCase
func NewUpdateTeamRoleUseCase(repo teamrole.Repository, defaults teamrole.Defaults, uow common.UnitOfWork) *UpdateTeamRoleUseCase {
	return &UpdateTeamRoleUseCase{
		repo:       repo,
		defaults:   defaults,
		unitOfWork: uow,
	}
}

// Execute updates a team role
func (uc *UpdateTeamRoleUseCase) Execute(
	ctx context.Context,
	cmd UpdateTeamRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, failure := loadMutable(ctx, uc.repo, cmd.ID)
	if failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	updated := *existing
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return common.Failure[common.DomainEvent](
				common.ValidationError(common.ErrCodeRequired, "Team role name cannot be empty", map[string]any{"field": "name"}),
			)
		}
		if name != existing.Name {
			if uc.defaults.Protects(existing.Name) {
				return common.Failure[common.DomainEvent](
					common.ConflictError(common.ErrCodeDefaultRoleProtected, "Default team roles cannot be renamed",
						map[string]any{"id": existing.ID, "name": existing.Name}),
				)
			}
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
