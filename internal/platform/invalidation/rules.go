// Package invalidation decides which users' cached claims a committed
// domain event makes stale, and evicts them.
package invalidation

import (
	"context"
	"slices"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
)

// Rule maps one event to the users whose claims it changes. A rule ignores
// events it does not handle by returning nil.
type Rule func(ctx context.Context, event common.DomainEvent, lookup Lookup) ([]string, error)

// DefaultRules returns the rules for every claims-relevant event.
func DefaultRules() []Rule {
	return []Rule{
		roleRule,
		rolePermissionRule,
		teamRoleRule,
		teamRolePermissionRule,
		teamRule,
		teamPermissionAssignmentRule,
		membershipRule,
		userRule,
		userPermissionAssignmentRule,
		catalogRule,
	}
}

// Affected applies rules to event and returns the distinct, sorted user ids.
func Affected(ctx context.Context, event common.DomainEvent, lookup Lookup, rules []Rule) ([]string, error) {
	var ids []string
	for _, rule := range rules {
		affected, err := rule(ctx, event, lookup)
		if err != nil {
			return nil, err
		}
		ids = append(ids, affected...)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func roleRule(ctx context.Context, event common.DomainEvent, lookup Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Updated[*role.Role]:
		if e.HasChanged("AllPermissions") {
			return lookup.UsersWithRole(ctx, e.Entity.ID)
		}
	case *events.Deleted[*role.Role]:
		return lookup.UsersWithRole(ctx, e.Entity.ID)
	}
	return nil, nil
}

func rolePermissionRule(ctx context.Context, event common.DomainEvent, lookup Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Created[*role.RolePermission]:
		return lookup.UsersWithRole(ctx, e.Entity.RoleID)
	case *events.Deleted[*role.RolePermission]:
		return lookup.UsersWithRole(ctx, e.Entity.RoleID)
	}
	return nil, nil
}

func teamRoleRule(ctx context.Context, event common.DomainEvent, lookup Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Updated[*teamrole.TeamRole]:
		if e.HasChanged("AllPermissions") {
			return lookup.UsersWithTeamRole(ctx, e.Entity.ID)
		}
	case *events.Deleted[*teamrole.TeamRole]:
		return lookup.UsersWithTeamRole(ctx, e.Entity.ID)
	}
	return nil, nil
}

func teamRolePermissionRule(ctx context.Context, event common.DomainEvent, lookup Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Created[*teamrole.TeamRolePermission]:
		return lookup.UsersWithTeamRole(ctx, e.Entity.TeamRoleID)
	case *events.Deleted[*teamrole.TeamRolePermission]:
		return lookup.UsersWithTeamRole(ctx, e.Entity.TeamRoleID)
	}
	return nil, nil
}

func teamRule(ctx context.Context, event common.DomainEvent, lookup Lookup) ([]string, error) {
	if e, ok := event.(*events.Updated[*team.Team]); ok && e.HasChanged("RoleID", "ViewID") {
		return lookup.UsersInTeam(ctx, e.Entity.ID)
	}
	return nil, nil
}

func teamPermissionAssignmentRule(ctx context.Context, event common.DomainEvent, lookup Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Created[*team.PermissionAssignment]:
		return lookup.UsersInTeam(ctx, e.Entity.TeamID)
	case *events.Deleted[*team.PermissionAssignment]:
		return lookup.UsersInTeam(ctx, e.Entity.TeamID)
	}
	return nil, nil
}

func membershipRule(_ context.Context, event common.DomainEvent, _ Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Created[*membership.TeamMembership]:
		return []string{e.Entity.UserID}, nil
	case *events.Updated[*membership.TeamMembership]:
		return []string{e.Entity.UserID}, nil
	case *events.Deleted[*membership.TeamMembership]:
		return []string{e.Entity.UserID}, nil
	case *events.Updated[*membership.ViewMembership]:
		if e.HasChanged("PrimaryTeamMembershipID") {
			return []string{e.Entity.UserID}, nil
		}
	}
	return nil, nil
}

func userRule(_ context.Context, event common.DomainEvent, _ Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Updated[*user.User]:
		if e.HasChanged("RoleID") {
			return []string{e.Entity.ID}, nil
		}
	case *events.Deleted[*user.User]:
		return []string{e.Entity.ID}, nil
	}
	return nil, nil
}

func userPermissionAssignmentRule(_ context.Context, event common.DomainEvent, _ Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Created[*user.PermissionAssignment]:
		return []string{e.Entity.UserID}, nil
	case *events.Deleted[*user.PermissionAssignment]:
		return []string{e.Entity.UserID}, nil
	}
	return nil, nil
}

// catalogRule covers the AllPermissions holders, whose claims track the
// whole catalog, and the holders of a permission whose name or kind changed.
// Explicit grants of a deleted permission are removed in the same commit
// and handled by the grant rules.
func catalogRule(ctx context.Context, event common.DomainEvent, lookup Lookup) ([]string, error) {
	switch e := event.(type) {
	case *events.Created[*permission.Permission], *events.Deleted[*permission.Permission]:
		return lookup.UsersWithAllPermissionsRole(ctx)
	case *events.Created[*teampermission.TeamPermission], *events.Deleted[*teampermission.TeamPermission]:
		return lookup.UsersWithAllPermissionsTeamRole(ctx)
	case *events.Updated[*permission.Permission]:
		if e.HasChanged("Name") {
			return concat(ctx, lookup.UsersWithAllPermissionsRole,
				func(ctx context.Context) ([]string, error) { return lookup.UsersWithPermission(ctx, e.Entity.ID) })
		}
	case *events.Updated[*teampermission.TeamPermission]:
		if e.HasChanged("Name", "Kind") {
			return concat(ctx, lookup.UsersWithAllPermissionsTeamRole,
				func(ctx context.Context) ([]string, error) { return lookup.UsersWithTeamPermission(ctx, e.Entity.ID) })
		}
	}
	return nil, nil
}

func concat(ctx context.Context, lookups ...func(context.Context) ([]string, error)) ([]string, error) {
	var ids []string
	for _, fn := range lookups {
		found, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		ids = append(ids, found...)
	}
	return ids, nil
}
