package operations

import (
	"context"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
)

// RemoveUserFromTeamCommand names the membership to remove
type RemoveUserFromTeamCommand struct {
	TeamID string `json:"teamId"`
	UserID string `json:"userId"`
}

// RemoveUserFromTeamUseCase deletes a team membership. Removing the last
// team membership in a view also removes the view membership; removing the
// primary re-points it to a remaining membership.
type RemoveUserFromTeamUseCase struct {
	repo       membership.Repository
	unitOfWork common.UnitOfWork
}

// NewRemoveUserFromTeamUseCase creates a new RemoveUserFromTeamUseCase
func NewRemoveUserFromTeamUseCase(repo membership.Repository, uow common.UnitOfWork) *RemoveUserFromTeamUseCase {
	return &RemoveUserFromTeamUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute removes the membership
func (uc *RemoveUserFromTeamUseCase) Execute(
	ctx context.Context,
	cmd RemoveUserFromTeamCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	tm, err := uc.repo.FindTeamMembership(ctx, cmd.TeamID, cmd.UserID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeMembershipNotFound, "User is not a member of this team",
				map[string]any{"teamId": cmd.TeamID, "userId": cmd.UserID}),
		)
	}

	var changes common.Changes
	if err := membership.PlanRemoval(ctx, uc.repo, []*membership.TeamMembership{tm}, &changes, execCtx); err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to plan membership removal", err))
	}
	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
