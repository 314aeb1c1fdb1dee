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
	"go.player.tech/internal/platform/user"
)

// CreateUserCommand contains the data needed to register a user.
// ID is the external identity (token subject); a new id is generated when
// it is empty.
type CreateUserCommand struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	RoleID string `json:"roleId,omitempty"`
}

// CreateUserUseCase handles registering a user
type CreateUserUseCase struct {
	repo       user.Repository
	roles      role.Repository
	unitOfWork common.UnitOfWork
}

// NewCreateUserUseCase creates a new CreateUserUseCase
func NewCreateUserUseCase(repo user.Repository, roles role.Repository, uow common.UnitOfWork) *CreateUserUseCase {
	return &CreateUserUseCase{
		repo:       repo,
		roles:      roles,
		unitOfWork: uow,
	}
}

// Execute registers the user
func (uc *CreateUserUseCase) Execute(
	ctx context.Context,
	cmd CreateUserCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "User name is required", map[string]any{"field": "name"}),
		)
	}

	id := strings.TrimSpace(cmd.ID)
	if id == "" {
		id = ids.New()
	} else {
		_, err := uc.repo.FindByID(ctx, id)
		if err == nil {
			return common.Failure[common.DomainEvent](
				common.ConflictError(common.ErrCodeNameExists, "A user with this id already exists", map[string]any{"id": id}),
			)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return common.Failure[common.DomainEvent](common.DatabaseError("Failed to check user", err))
		}
	}

	if failure := checkRole(ctx, uc.roles, cmd.RoleID); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	now := time.Now()
	u := &user.User{
		ID:        id,
		Name:      name,
		RoleID:    cmd.RoleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return uc.unitOfWork.Commit(ctx, u, events.NewCreated(execCtx, u), cmd)
}

func checkRole(ctx context.Context, roles role.Repository, roleID string) *common.UseCaseError {
	if roleID == "" {
		return nil
	}
	if _, err := roles.FindByID(ctx, roleID); err != nil {
		return common.LookupError(err, common.ErrCodeRoleNotFound, "Role not found", map[string]any{"id": roleID})
	}
	return nil
}
