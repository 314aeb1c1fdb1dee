package operations

import (
	"context"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/teamrole"
)

// SetTeamMembershipRoleCommand overrides the team role for one member.
// An empty RoleID removes the override.
type SetTeamMembershipRoleCommand struct {
	TeamMembershipID string `json:"teamMembershipId"`
	RoleID           string `json:"roleId"`
}

// SetTeamMembershipRoleUseCase sets or clears a member's role override
type SetTeamMembershipRoleUseCase struct {
	repo       membership.Repository
	teamRoles  teamrole.Repository
	unitOfWork common.UnitOfWork
}

// NewSetTeamMembershipRoleUseCase creates a new SetTeamMembershipRoleUseCase
func NewSetTeamMembershipRoleUseCase(repo membership.Repository, teamRoles teamrole.Repository, uow common.UnitOfWork) *SetTeamMembershipRoleUseCase {
	return &SetTeamMembershipRoleUseCase{
		repo:       repo,
		teamRoles:  teamRoles,
		unitOfWork: uow,
	}
}

// Execute applies the override
func (uc *SetTeamMembershipRoleUseCase) Execute(
	ctx context.Context,
	cmd SetTeamMembershipRoleCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	tm, err := uc.repo.FindTeamMembershipByID(ctx, cmd.TeamMembershipID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeMembershipNotFound, "Team membership not found", map[string]any{"id": cmd.TeamMembershipID}),
		)
	}
	if failure := checkTeamRole(ctx, uc.teamRoles, cmd.RoleID); failure != nil {
		return common.Failure[common.DomainEvent](failure)
	}

	updated := *tm
	updated.RoleID = cmd.RoleID
	updated.UpdatedAt = time.Now()
	return uc.unitOfWork.Commit(ctx, &updated, events.NewUpdated(execCtx, tm, &updated), cmd)
}
