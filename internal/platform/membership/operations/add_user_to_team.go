package operations

import (
	"context"
	"errors"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
)

// AddUserToTeamCommand enrolls a user in a team. RoleID optionally
// overrides the team's role for this member.
type AddUserToTeamCommand struct {
	TeamID string `json:"teamId"`
	UserID string `json:"userId"`
	RoleID string `json:"roleId,omitempty"`
}

// AddUserToTeamUseCase creates a team membership. The user's view
// membership for the team's view is created on demand and then points at
// the new membership as primary.
type AddUserToTeamUseCase struct {
	repo       membership.Repository
	teams      team.Repository
	users      user.Repository
	teamRoles  teamrole.Repository
	unitOfWork common.UnitOfWork
}

// NewAddUserToTeamUseCase creates a new AddUserToTeamUseCase
func NewAddUserToTeamUseCase(
	repo membership.Repository,
	teams team.Repository,
	users user.Repository,
	teamRoles teamrole.Repository,
	uow common.UnitOfWork,
) *AddUserToTeamUseCase {
	return &AddUserToTeamUseCase{
		repo:       repo,
		teams:      teams,
		users:      users,
		teamRoles:  teamRoles,
		unitOfWork: uow,
	}
}

// Execute adds the user to the team
func (uc *AddUserToTeamUseCase) Execute(
	ctx context.Context,
	cmd AddUserToTeamCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	t, err := uc.teams.FindByID(ctx, cmd.TeamID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeTeamNotFound, "Team not found", map[string]any{"id": cmd.TeamID}),
		)
	}
	if _, err := uc.users.FindByID(ctx, cmd.UserID); err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeUserNotFound, "User not found", map[string]any{"id": cmd.UserID}),
		)
	}
	if failure := checkTeamRole(ctx, uc.teamRoles, cmd.RoleID); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	_, err = uc.repo.FindTeamMembership(ctx, cmd.TeamID, cmd.UserID)
	if err == nil {
		return common.Failure[common.DomainEvent](
			common.ConflictError(common.ErrCodeMembershipExists, "User is already a member of this team",
				map[string]any{"teamId": cmd.TeamID, "userId": cmd.UserID}),
		)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to check team membership", err))
	}

	now := time.Now()
	vm, err := uc.repo.FindViewMembership(ctx, t.ViewID, cmd.UserID)
	isNew := errors.Is(err, repository.ErrNotFound)
	if err != nil && !isNew {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find view membership", err))
	}
	if isNew {
		vm = &membership.ViewMembership{
			ID:        ids.New(),
			ViewID:    t.ViewID,
			UserID:    cmd.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	tm := &membership.TeamMembership{
		ID:               ids.New(),
		TeamID:           t.ID,
		UserID:           cmd.UserID,
		ViewMembershipID: vm.ID,
		RoleID:           cmd.RoleID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var changes common.Changes
	changes.Save(tm).Record(events.NewCreated(execCtx, tm))
	switch {
	case isNew:
		vm.PrimaryTeamMembershipID = tm.ID
		changes.Save(vm).Record(events.NewCreated(execCtx, vm))
	case vm.PrimaryTeamMembershipID == "":
		updated := *vm
		updated.PrimaryTeamMembershipID = tm.ID
		updated.UpdatedAt = now
		changes.Save(&updated).Record(events.NewUpdated(execCtx, vm, &updated))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}

func checkTeamRole(ctx context.Context, repo teamrole.Repository, id string) *common.UseCaseError {
	if id == "" {
		return nil
	}
	if _, err := repo.FindByID(ctx, id); err != nil {
		return common.LookupError(err, common.ErrCodeTeamRoleNotFound, "Team role not found", map[string]any{"id": id})
	}
	return nil
}
