package operations

import (
	"context"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/team"
)

// DeleteTeamCommand contains the ID of the team to delete
type DeleteTeamCommand struct {
	ID string `json:"id"`
}

// DeleteTeamUseCase deletes a team with its memberships, permission
// assignments and application instances.
type DeleteTeamUseCase struct {
	repo         team.Repository
	memberships  membership.Repository
	applications application.Repository
	unitOfWork   common.UnitOfWork
}

// NewDeleteTeamUseCase creates a new DeleteTeamUseCase
func NewDeleteTeamUseCase(
	repo team.Repository,
	memberships membership.Repository,
	applications application.Repository,
	uow common.UnitOfWork,
) *DeleteTeamUseCase {
	return &DeleteTeamUseCase{
		repo:         repo,
		memberships:  memberships,
		applications: applications,
		unitOfWork:   uow,
	}
}

// Execute deletes the team
func (uc *DeleteTeamUseCase) Execute(
	ctx context.Context,
	cmd DeleteTeamCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeTeamNotFound, "Team not found", map[string]any{"id": cmd.ID}),
		)
	}

	grants, err := uc.repo.FindPermissions(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find team permissions", err))
	}
	instances, err := uc.applications.FindInstancesByTeam(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find application instances", err))
	}
	members, err := uc.memberships.FindTeamMembershipsByTeam(ctx, existing.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find team memberships", err))
	}

	var changes common.Changes
	changes.Delete(existing).Record(events.NewDeleted(execCtx, existing))
	for _, g := range grants {
		changes.Delete(g).Record(events.NewDeleted(execCtx, g))
	}
	for _, i := range instances {
		changes.Delete(i).Record(events.NewDeleted(execCtx, i))
	}
	if err := membership.PlanRemoval(ctx, uc.memberships, members, &changes, execCtx); err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to plan membership removal", err))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
