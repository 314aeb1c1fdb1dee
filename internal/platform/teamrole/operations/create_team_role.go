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
	"go.player.tech/internal/platform/teamrole"
)

// CreateTeamRoleCommand contains the data needed to create a team role
type CreateTeamRoleCommand struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	AllPermissions bool   `json:"allPermissions,omitempty"`
	Immutable      bool   `json:"immutable,omitempty"`
}

// CreateTeamRoleUseCase handles creating a new team role
type CreateTeamRoleUseCase struct {
	repo       teamrole.Repository
	unitOfWork common.UnitOfWork
}

// NewCreateTeamRoleUseCase creates a new CreateTeamRoleUseCase
func NewCreateTeamRoleUseCase(repo teamrole.Repository, uow common.UnitOfWork) *CreateTeamRoleUseCase {
	return &CreateTeamRoleUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute creates a new team role
func (uc *CreateTeamRoleUseCase) Execute(
	ctx context.Context,
	cmd CreateTeamRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "Team role name is required", map[string]any{"field": "name"}),
		)
	}
	if failure := checkNameFree(ctx, uc.repo, name, ""); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	now := time.Now()
	r := &teamrole.TeamRole{
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

func checkNameFree(ctx context.Context, repo teamrole.Repository, name, selfID string) *common.UseCaseError {
	other, err := repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return common.DatabaseError("Failed to check team role name", err)
	}
	if other.ID == selfID {
		return nil
	}
	return common.ConflictError(common.ErrCodeNameExists, "A team role with this name already exists", map[string]any{"name": name})
}

// loadMutable finds a team role and rejects immutable ones.
func loadMutable(ctx context.Context, repo teamrole.Repository, id string) (*teamrole.TeamRole, *common.UseCaseError) {
	existing, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, common.LookupError(err, common.ErrCodeTeamRoleNotFound, "Team role not found", map[string]any{"id": id})
	}
	if existing.Immutable {
		return nil, common.ForbiddenError(common.ErrCodeImmutable, "Team role is immutable", map[string]any{"id": id})
	}
	return existing, nil
}
