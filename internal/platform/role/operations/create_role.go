package operations

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/role"
)

// CreateRoleCommand contains the data needed to create a role
type CreateRoleCommand struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	AllPermissions bool   `json:"allPermissions,omitempty"`
	Immutable      bool   `json:"immutable,omitempty"`
}

// CreateRoleUseCase handles creating a new role
type CreateRoleUseCase struct {
	repo       role.Repository
	unitOfWork common.UnitOfWork
}

// NewCreateRoleUseCase creates a new CreateRoleUseCase
func NewCreateRoleUseCase(repo role.Repository, uow common.UnitOfWork) *CreateRoleUseCase {
	return &CreateRoleUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute creates a new role
func (uc *CreateRoleUseCase) Execute(
	ctx context.Context,
	cmd CreateRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Role name is required", map[string]any{"field": "name"}),
		)
	}

	if failure := checkNameFree(ctx, uc.repo, name, ""); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	now := time.Now()
	r := &role.Role{
		ID:             ids.New(),
		Name:           name,
		Description:    cmd.Description,
		AllPermissions: cmd.AllPermissions,
		Immutable:      cmd.Immutable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return uc.unitOfWork.Commit(ctx, r, events.NewCreated(execCtx, r), cmd)
}

// checkNameFree fails with NAME_EXISTS if another role than selfID uses name.
func checkNameFree(ctx context.Context, repo role.Repository, name, selfID string) *common.UseCaseError {
	other, err := repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return common.DatabaseError("Failed to check role name", err)
	}
	if other.ID == selfID {
		return nil
	}
	return common.ConflictError(common.ErrCodeNameExists, "A role with this name already exists", map[string]any{"name": name})
}
