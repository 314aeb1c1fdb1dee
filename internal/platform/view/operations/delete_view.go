package operations

import (
	"context"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/view"
)

// DeleteViewCommand contains the ID of the view to delete
type DeleteViewCommand struct {
	ID string `json:"id"`
}

// DeleteViewUseCase deletes a view and everything scoped to it: teams,
// their assignments and memberships, applications and their instances.
// Views cloned from it keep their ParentViewID.
type DeleteViewUseCase struct {
	repo         view.Repository
	teams        team.Repository
	applications application.Repository
	memberships  membership.Repository
	unitOfWork   common.UnitOfWork
}

// NewDeleteViewUseCase creates a new DeleteViewUseCase
func NewDeleteViewUseCase(
	repo view.Repository,
	teams team.Repository,
	applications application.Repository,
	memberships membership.Repository,
	uow common.UnitOfWork,
) *DeleteViewUseCase {
	return &DeleteViewUseCase{
		repo:         repo,
		teams:        teams,
		applications: applications,
		memberships:  memberships,
		unitOfWork:   uow,
	}
}

// Execute deletes the view
func (uc *DeleteViewUseCase) Execute(
	ctx context.Context,
	cmd DeleteViewCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	graph, err := view.LoadGraph(ctx, uc.repo, uc.teams, uc.applications, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeViewNotFound, "View not found", map[string]any{"id": cmd.ID}),
		)
	}
	viewMemberships, err := uc.memberships.FindViewMembershipsByView(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find view memberships", err))
	}

	var changes common.Changes
	changes.Delete(graph.View).Record(events.NewDeleted(execCtx, graph.View))
	for _, t := range graph.Teams {
		changes.Delete(t).Record(events.NewDeleted(execCtx, t))
		members, err := uc.memberships.FindTeamMembershipsByTeam(ctx, t.ID)
		if err != nil {
			return common.Failure[common.DomainEvent](common.DatabaseError("Failed to find team memberships", err))
		}
		for _, m := range members {
			changes.Delete(m).Record(events.NewDeleted(execCtx, m))
		}
	}
	for _, a := range graph.Assignments {
		changes.Delete(a).Record(events.NewDeleted(execCtx, a))
	}
	for _, a := range graph.Applications {
		changes.Delete(a).Record(events.NewDeleted(execCtx, a))
	}
	for _, i := range graph.Instances {
		changes.Delete(i).Record(events.NewDeleted(execCtx, i))
	}
	for _, m := range viewMemberships {
		changes.Delete(m).Record(events.NewDeleted(execCtx, m))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
