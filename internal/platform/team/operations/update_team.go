package operations

import (
	"context"
	"strings"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teamrole"
)

// UpdateTeamCommand contains the data needed to update a team.
// Nil fields are left unchanged; an empty RoleID clears the role.
type UpdateTeamCommand struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	RoleID *string `json:"roleId,omitempty"`
}

// UpdateTeamUseCase handles renaming a team or changing its team role
type UpdateTeamUseCase struct {
	repo       team.Repository
	teamRoles  teamrole.Repository
	unitOfWork common.UnitOfWork
}

// NewUpdateTeamUseCase creates a new UpdateTeamUseCase
func NewUpdateTeamUseCase(repo team.Repository, teamRoles teamrole.Repository, uow common.UnitOfWork) *UpdateTeamUseCase {
	return &UpdateTeamUseCase{
		repo:       repo,
		teamRoles:  teamRoles,
		unitOfWork: uow,
	}
}

// Execute updates the team
func (uc *UpdateTeamUseCase) Execute(
	ctx context.Context,
	cmd UpdateTeamCommand,
	execCtx *common.ExecutionContext,
) common.Result[common.DomainEvent] {
	existing, err := uc.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return common.Failure[common.DomainEvent](
			common.LookupError(err, common.ErrCodeTeamNotFound, "Team not found", map[string]any{"id": cmd.ID}),
		)
	}

	updated := *existing
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return common.Failure[common.DomainEvent](
				common.ValidationError(common.ErrCodeRequired, "Team name cannot be empty", map[string]any{"field": "name"}),
			)
		}
		updated.Name = name
	}
	if cmd.RoleID != nil {
		if *cmd.RoleID != "" {
			if _, err := uc.teamRoles.FindByID(ctx, *cmd.RoleID); err != nil {
				return common.Failure[common.DomainEvent](
					common.LookupError(err, common.ErrCodeTeamRoleNotFound, "Team role not found", map[string]any{"id": *cmd.RoleID}),
				)
			}
		}
		updated.RoleID = *cmd.RoleID
	}
	updated.UpdatedAt = time.Now()

	return uc.unitOfWork.Commit(ctx, &updated, events.NewUpdated(execCtx, existing, &updated), cmd)
}
