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
	"go.player.tech/internal/platform/permission"
)

// CreatePermissionCommand contains the data needed to create a system permission
type CreatePermissionCommand struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Immutable   bool   `json:"immutable,omitempty"`
}

// CreatePermissionUseCase handles creating a new system permission
type CreatePermissionUseCase struct {
	repo       permission.Repository
	unitOfWork common.UnitOfWork
}

// NewCreatePermissionUseCase creates a new CreatePermissionUseCase
func NewCreatePermissionUseCase(repo permission.Repository, uow common.UnitOfWork) *CreatePermissionUseCase {
	return &CreatePermissionUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute creates a new permission
func (uc *CreatePermissionUseCase) Execute(
	ctx context.Context,
	cmd CreatePermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Permission name is required", map[string]any{"field": "name"}),
		)
	}

	_, err := uc.repo.FindByName(ctx, name)
	if err == nil {
		return common.Failure[common.DomainEvent](
			common.ConflictError(common.ErrCodeNameExists, "A permission with this name already exists", map[string]any{"name": name}),
		)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to check permission name", err))
	}

	now := time.Now()
	p := &permission.Permission{
		ID:          ids.New(),
		Name:        name,
		Description: cmd.Description,
		Immutable:   cmd.Immutable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return uc.unitOfWork.Commit(ctx, p, events.NewCreated(execCtx, p), cmd)
}
