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
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
	"go.player.tech/internal/platform/view"
)

// CreatorTeamName is the name of the team created with every new view.
const CreatorTeamName = "Creators"

// CreateViewCommand contains the data needed to create a view.
// CreatorID defaults to the executing principal.
type CreateViewCommand struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatorID   string `json:"creatorId,omitempty"`
}

// CreateViewUseCase creates a view together with a creator team that holds
// the view-creator team role, and enrolls the creator in it as primary.
type CreateViewUseCase struct {
	users      user.Repository
	teamRoles  teamrole.Repository
	defaults   teamrole.Defaults
	unitOfWork common.UnitOfWork
}

// NewCreateViewUseCase creates a new CreateViewUseCase
func NewCreateViewUseCase(users user.Repository, teamRoles teamrole.Repository, defaults teamrole.Defaults, uow common.UnitOfWork) *CreateViewUseCase {
	return &CreateViewUseCase{
		users:      users,
		teamRoles:  teamRoles,
		defaults:   defaults,
		unitOfWork: uow,
	}
}

// Execute creates the view
func (uc *CreateViewUseCase) Execute(
	ctx context.Context,
	cmd CreateViewCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeRequired, "View name is required", map[string]any{"field": "name"}),
		)
	}

	creatorID := cmd.CreatorID
	if creatorID == "" {
		creatorID = execCtx.PrincipalID
	}
	if _, err := uc.users.FindByID(ctx, creatorID); err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeUserNotFound, "Creator not found", map[string]any{"id": creatorID}),
		)
	}

	var roleID string
	if uc.defaults.ViewCreator != "" {
		r, err := uc.teamRoles.FindByName(ctx, uc.defaults.ViewCreator)
		switch {
		case err == nil:
			roleID = r.ID
		case !errors.Is(err, repository.ErrNotFound):
			return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find view creator team role", err))
		}
	}

	now := time.Now()
	v := &view.View{
		ID:          ids.New(),
		Name:        name,
		Description: cmd.Description,
		Status:      view.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t := &team.Team{
		ID:        ids.New(),
		Name:      CreatorTeamName,
		ViewID:    v.ID,
		RoleID:    roleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	vm := &membership.ViewMembership{
		ID:        ids.New(),
		ViewID:    v.ID,
		UserID:    creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tm := &membership.TeamMembership{
		ID:               ids.New(),
		TeamID:           t.ID,
		UserID:           creatorID,
		ViewMembershipID: vm.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	vm.PrimaryTeamMembershipID = tm.ID

	var changes common.Changes
	changes.Save(v, t, vm, tm).Record(
		events.NewCreated(execCtx, v),
		events.NewCreated(execCtx, t),
		events.NewCreated(execCtx, vm),
		events.NewCreated(execCtx, tm),
	)
	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
