package invalidation

import (
	"context"
	"fmt"

	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
)

// Lookup answers the "who holds this" questions the rules need. It reads
// state after the commit.
type Lookup interface {
	// UsersWithRole returns users whose Role is roleID.
	UsersWithRole(ctx context.Context, roleID string) ([]string, error)

	// UsersWithTeamRole returns users holding a TeamMembership whose
	// effective TeamRole is teamRoleID.
	UsersWithTeamRole(ctx context.Context, teamRoleID string) ([]string, error)

	// UsersInTeam returns users with a TeamMembership in teamID.
	UsersInTeam(ctx context.Context, teamID string) ([]string, error)

	// UsersWithAllPermissionsRole returns users whose Role has AllPermissions.
	UsersWithAllPermissionsRole(ctx context.Context) ([]string, error)

	// UsersWithAllPermissionsTeamRole returns users whose effective TeamRole
	// in any Team has AllPermissions.
	UsersWithAllPermissionsTeamRole(ctx context.Context) ([]string, error)

	// UsersWithPermission returns users granted a system permission through
	// their Role or directly.
	UsersWithPermission(ctx context.Context, permissionID string) ([]string, error)

	// UsersWithTeamPermission returns users granted a TeamPermission through
	// an effective TeamRole or their Team's own grants.
	UsersWithTeamPermission(ctx context.Context, permissionID string) ([]string, error)
}

// RepositoryLookup implements Lookup over the entity repositories.
type RepositoryLookup struct {
	Users       user.Repository
	Roles       role.Repository
	TeamRoles   teamrole.Repository
	Teams       team.Repository
	Memberships membership.Repository
}

var _ Lookup = (*RepositoryLookup)(nil)

func (l *RepositoryLookup) UsersWithRole(ctx context.Context, roleID string) ([]string, error) {
	users, err := l.Users.FindByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("find users by role %s: %w", roleID, err)
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids, nil
}

func (l *RepositoryLookup) UsersWithTeamRole(ctx context.Context, teamRoleID string) ([]string, error) {
	overrides, err := l.Memberships.FindTeamMembershipsByRole(ctx, teamRoleID)
	if err != nil {
		return nil, fmt.Errorf("find memberships by team role %s: %w", teamRoleID, err)
	}
	var ids []string
	for _, m := range overrides {
		ids = append(ids, m.UserID)
	}

	teams, err := l.Teams.FindByRole(ctx, teamRoleID)
	if err != nil {
		return nil, fmt.Errorf("find teams by role %s: %w", teamRoleID, err)
	}
	for _, t := range teams {
		members, err := l.Memberships.FindTeamMembershipsByTeam(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("find memberships of team %s: %w", t.ID, err)
		}
		for _, m := range members {
			if m.RoleID == "" {
				ids = append(ids, m.UserID)
			}
		}
	}
	return ids, nil
}

func (l *RepositoryLookup) UsersInTeam(ctx context.Context, teamID string) ([]string, error) {
	members, err := l.Memberships.FindTeamMembershipsByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("find memberships of team %s: %w", teamID, err)
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}

func (l *RepositoryLookup) UsersWithAllPermissionsRole(ctx context.Context) ([]string, error) {
	roles, err := l.Roles.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	var ids []string
	for _, r := range roles {
		if !r.AllPermissions {
			continue
		}
		users, err := l.UsersWithRole(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, users...)
	}
	return ids, nil
}

func (l *RepositoryLookup) UsersWithAllPermissionsTeamRole(ctx context.Context) ([]string, error) {
	roles, err := l.TeamRoles.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find team roles: %w", err)
	}
	var ids []string
	for _, r := range roles {
		if !r.AllPermissions {
			continue
		}
		users, err := l.UsersWithTeamRole(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, users...)
	}
	return ids, nil
}

func (l *RepositoryLookup) UsersWithPermission(ctx context.Context, permissionID string) ([]string, error) {
	grants, err := l.Roles.FindPermissionsByPermission(ctx, permissionID)
	if err != nil {
		return nil, fmt.Errorf("find role grants of %s: %w", permissionID, err)
	}
	var ids []string
	for _, g := range grants {
		users, err := l.UsersWithRole(ctx, g.RoleID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, users...)
	}

	direct, err := l.Users.FindPermissionsByPermission(ctx, permissionID)
	if err != nil {
		return nil, fmt.Errorf("find user grants of %s: %w", permissionID, err)
	}
	for _, a := range direct {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

func (l *RepositoryLookup) UsersWithTeamPermission(ctx context.Context, permissionID string) ([]string, error) {
	grants, err := l.TeamRoles.FindPermissionsByPermission(ctx, permissionID)
	if err != nil {
		return nil, fmt.Errorf("find team role grants of %s: %w", permissionID, err)
	}
	var ids []string
	for _, g := range grants {
		users, err := l.UsersWithTeamRole(ctx, g.TeamRoleID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, users...)
	}

	assignments, err := l.Teams.FindPermissionsByPermission(ctx, permissionID)
	if err != nil {
		return nil, fmt.Errorf("find team grants of %s: %w", permissionID, err)
	}
	for _, a := range assignments {
		users, err := l.UsersInTeam(ctx, a.TeamID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, users...)
	}
	return ids, nil
}
