package operations

import (
	"context"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
)

// SetPrimaryTeamMembershipCommand picks the default team of a user in a view
type SetPrimaryTeamMembershipCommand struct {
	ViewMembershipID string `json:"viewMembershipId"`
	TeamMembershipID string `json:"teamMembershipId"`
}

// SetPrimaryTeamMembershipUseCase changes a view membership's primary team.
// The team membership must belong to the same view membership.
type SetPrimaryTeamMembershipUseCase struct {
	repo       membership.Repository
	unitOfWork common.UnitOfWork
}

// NewSetPrimaryTeamMembershipUseCase creates a new SetPrimaryTeamMembershipUseCase
func NewSetPrimaryTeamMembershipUseCase(repo membership.Repository, uow common.UnitOfWork) *SetPrimaryTeamMembershipUseCase {
	return &SetPrimaryTeamMembershipUseCase{
		repo:       repo,
		unitOfWork: uow,
	}
}

// Execute sets the primary membership
func (uc *SetPrimaryTeamMembershipUseCase) Execute(
	ctx context.Context,
	cmd SetPrimaryTeamMembershipCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	vm, err := uc.repo.FindViewMembershipByID(ctx, cmd.ViewMembershipID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeMembershipNotFound, "View membership not found", map[string]any{"id": cmd.ViewMembershipID}),
		)
	}
	tm, err := uc.repo.FindTeamMembershipByID(ctx, cmd.TeamMembershipID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeMembershipNotFound, "Team membership not found", map[string]any{"id": cmd.TeamMembershipID}),
		)
	}
	if tm.ViewMembershipID != vm.ID {
		return common.Failure[common.DomainEvent](
			common.ValidationError(common.ErrCodeInvalidValue, "Team membership belongs to another view membership",
				map[string]any{"viewMembershipId": vm.ID, "teamMembershipId": tm.ID}),
		)
	}

	updated := *vm
	updated.PrimaryTeamMembershipID = tm.ID
	updated.UpdatedAt = time.Now()
	return uc.unitOfWork.Commit(ctx, &updated, events.NewUpdated(execCtx, vm, &updated), cmd)
}
