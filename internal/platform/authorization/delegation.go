package authorization

import (
	"context"
	"errors"
	"fmt"

	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
)

// Covers reports whether the claims hold p within scope. A View permission
// must be in the union of the View's team claims. A Team permission must be
// on the claim for scope.TeamID, or the user must hold ManageView on the
// View.
func (c *Claims) Covers(scope Scope, p ScopedPermission) bool {
	if c == nil {
		return false
	}
	switch p.Kind {
	case teampermission.KindView:
		return c.HasAnyViewPermission(scope.ViewID, []ViewPermission{ViewPermission(p.Value)})
	case teampermission.KindTeam:
		if t, ok := c.Team(scope.TeamID); ok && t.Has(p) {
			return true
		}
		return c.HasAnyViewPermission(scope.ViewID, []ViewPermission{ManageView})
	}
	return false
}

// Delegation keeps grants made through the team endpoints within what the
// granting user already holds. ManageViews and ManageRoles holders may
// confer anything.
type Delegation struct {
	teamPermissions teampermission.Repository
	teamRoles       teamrole.Repository
}

// NewDelegation creates a delegation check.
func NewDelegation(teamPermissions teampermission.Repository, teamRoles teamrole.Repository) *Delegation {
	return &Delegation{teamPermissions: teamPermissions, teamRoles: teamRoles}
}

// Check returns a Forbidden error naming what conferred adds beyond claims
// in scope.
func (d *Delegation) Check(claims *Claims, scope Scope, conferred []ScopedPermission) *common.UseCaseError {
	if claims.HasAnySystem([]SystemPermission{ManageViews, ManageRoles}) {
		return nil
	}
	var missing []string
	for _, p := range conferred {
		if !claims.Covers(scope, p) {
			missing = append(missing, p.String())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return common.ForbiddenError(common.ErrCodeExceedsGrantor,
		"grant confers permissions the caller does not hold",
		map[string]any{"userId": claims.UserID, "missing": missing})
}

// Permission returns what granting one TeamPermission confers. An unknown
// id confers nothing.
func (d *Delegation) Permission(ctx context.Context, permissionID string) ([]ScopedPermission, error) {
	p, err := d.teamPermissions.FindByID(ctx, permissionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find team permission %s: %w", permissionID, err)
	}
	return []ScopedPermission{scoped(p)}, nil
}

// TeamRole returns what assigning a TeamRole confers.
func (d *Delegation) TeamRole(ctx context.Context, roleID string) ([]ScopedPermission, error) {
	all, err := d.teamPermissions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team permissions: %w", err)
	}
	catalog := make(map[string]*teampermission.TeamPermission, len(all))
	for _, p := range all {
		catalog[p.ID] = p
	}
	return expandTeamRole(ctx, d.teamRoles, catalog, roleID)
}

// expandTeamRole returns every catalog entry for an AllPermissions role,
// ignoring its explicit rows, else the explicit rows. A missing role
// expands to nothing.
func expandTeamRole(ctx context.Context, roles teamrole.Repository, catalog map[string]*teampermission.TeamPermission, roleID string) ([]ScopedPermission, error) {
	tr, err := roles.FindByID(ctx, roleID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find team role %s: %w", roleID, err)
	}

	var out []ScopedPermission
	if tr.AllPermissions {
		for _, p := range catalog {
			out = append(out, scoped(p))
		}
		return out, nil
	}

	grants, err := roles.FindPermissions(ctx, tr.ID)
	if err != nil {
		return nil, fmt.Errorf("find team role permissions %s: %w", tr.ID, err)
	}
	for _, grant := range grants {
		if p, ok := catalog[grant.PermissionID]; ok {
			out = append(out, scoped(p))
		}
	}
	return out, nil
}
