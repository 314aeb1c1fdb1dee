package operations

import (
	"context"
	"strings"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/user"
)

// UpdateUserCommand contains the data needed to update a user.
// Nil fields are left unchanged; an empty RoleID removes the system role.
type UpdateUserCommand struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	RoleID *string `json:"roleId,omitempty"`
}

// UpdateUserUseCase handles renaming a user or changing their system role
type UpdateUserUseCase struct {
	repo       user.Repository
	roles      role.Repository
	unitOfWork common.UnitOfWork
}

// NewUpdateUserUseCase creates a new UpdateUserUseCase
func NewUpdateUserUseCase(repo user.Repository, roles role.Repository, uow common.UnitOfWork) *UpdateUserUseCase {
	return &UpdateUserUseCase{
		repo:       repo,
		roles:      roles,
		unitOfWork: uow,
	}
}

// Execute updates the user
func (uc *UpdateUserUseCase) Execute(
	ctx context.Context,
	cmd UpdateUserCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeUserNotFound, "User not found", map[string]any{"id": cmd.ID}),
		)
	}

	updated := *existing
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return common.Failure[common.DomainEvent](
				common.ValidationError(common.ErrCodeRequired, "User name cannot be empty", map[string]any{"field": "name"}),
			)
		}
		updated.Name = name
	}
	if cmd.RoleID != nil {
		if failure := checkRole(ctx, uc.roles, *cmd.RoleID); failure != nil {
			return common.Failure[common.DomainEvent](failure)
		}
		updated.RoleID = *cmd.RoleID
	}
	updated.UpdatedAt = time.Now()

	return uc.unitOfWork.Commit(ctx, &updated, events.NewUpdated(execCtx, existing, &updated), cmd)
}
