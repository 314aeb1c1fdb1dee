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
	"go.player.tech/internal/platform/teampermission"
)

// CreateTeamPermissionCommand contains the data needed to create a scoped permission
type CreateTeamPermissionCommand struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Kind        teampermission.Kind `json:"kind"`
	Immutable   bool                `json:"immutable,omitempty"`
}

// CreateTeamPermissionUseCase handles creating a View or Team scoped permission
type CreateTeamPermissionUseCase struct {
	repo       teampermission.Repository
	unitOfWork common.UnitOfWork
}

// NewCreateTeamPermissionUseCase creates a new CreateTeamPermissionUseCase
func NewCreateTeamPermissionUseCase(repo teampermission.Repository, uow common.UnitOfWork) *CreateTeamPermissionUseCase {
	return &CreateTeamPermissionUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute creates a new team permission
func (uc *CreateTeamPermissionUseCase) Execute(
	ctx context.Context,
	cmd CreateTeamPermissionCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Permission name is required", map[string]any{"field": "name"}),
		)
	}
	if !cmd.Kind.Valid() {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeInvalidValue, "Kind must be View or Team", map[string]any{"kind": cmd.Kind}),
		)
	}

	_, err := uc.repo.FindByName(ctx, name)
	if err == nil {
		return common.Failure[common.DomainEvent](
			common.ConflictError(common.ErrCodeNameExists, "A team permission with this name already exists", map[string]any{"name": name}),
		)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to check team permission name", err))
	}

	now := time.Now()
	p := &teampermission.TeamPermission{
		ID:          ids.New(),
		Name:        name,
		Description: cmd.Description,
		Kind:        cmd.Kind,
		Immutable:   cmd.Immutable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return uc.unitOfWork.Commit(ctx, p, events.NewCreated(execCtx, p), cmd)
}
