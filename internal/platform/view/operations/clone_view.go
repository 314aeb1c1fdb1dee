package operations

import (
	"context"
	"strings"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/view"
)

// CloneViewCommand copies a view under a new name.
// An empty Name yields "<source name> (copy)".
type CloneViewCommand struct {
	SourceViewID string `json:"sourceViewId"`
	Name         string `json:"name,omitempty"`
}

// CloneViewUseCase copies a view graph in a single commit.
// Memberships are not copied.
type CloneViewUseCase struct {
	views        view.Repository
	teams        team.Repository
	applications application.Repository
	unitOfWork   common.UnitOfWork
}

// NewCloneViewUseCase creates a new CloneViewUseCase
func NewCloneViewUseCase(views view.Repository, teams team.Repository, applications application.Repository, uow common.UnitOfWork) *CloneViewUseCase {
	return &CloneViewUseCase{
		views:        views,
		teams:        teams,
		applications: applications,
		unitOfWork:   uow,
	}
}

// Execute clones the view
func (uc *CloneViewUseCase) Execute(
	ctx context.Context,
	cmd CloneViewCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	src, err := view.LoadGraph(ctx, uc.views, uc.teams, uc.applications, cmd.SourceViewID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeViewNotFound, "View not found", map[string]any{"id": cmd.SourceViewID}),
		)
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = src.View.Name + " (copy)"
	}
	out, _ := view.CloneGraph(src, name, ids.New, time.Now())

	var changes common.Changes
	changes.Save(out.View).Record(events.NewCreated(execCtx, out.View))
	for _, t := range out.Teams {
		changes.Save(t).Record(events.NewCreated(execCtx, t))
	}
	for _, a := range out.Assignments {
		changes.Save(a).Record(events.NewCreated(execCtx, a))
	}
	for _, a := range out.Applications {
		changes.Save(a).Record(events.NewCreated(execCtx, a))
	}
	for _, i := range out.Instances {
		changes.Save(i).Record(events.NewCreated(execCtx, i))
	}

	return uc.unitOfWork.CommitChanges(ctx, changes, cmd)
}
