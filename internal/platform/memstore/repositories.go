package memstore

import (
	"context"
	"slices"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
	"go.player.tech/internal/platform/view"
)

// Permissions returns a permission.Repository view of the store.
func (s *Store) Permissions() permission.Repository { return permissionRepo{s} }

// TeamPermissions returns a teampermission.Repository view of the store.
func (s *Store) TeamPermissions() teampermission.Repository { return teamPermissionRepo{s} }

// Roles returns a role.Repository view of the store.
func (s *Store) Roles() role.Repository { return roleRepo{s} }

// TeamRoles returns a teamrole.Repository view of the store.
func (s *Store) TeamRoles() teamrole.Repository { return teamRoleRepo{s} }

// Views returns a view.Repository view of the store.
func (s *Store) Views() view.Repository { return viewRepo{s} }

// Teams returns a team.Repository view of the store.
func (s *Store) Teams() team.Repository { return teamRepo{s} }

// Users returns a user.Repository view of the store.
func (s *Store) Users() user.Repository { return userRepo{s} }

// Memberships returns a membership.Repository view of the store.
func (s *Store) Memberships() membership.Repository { return membershipRepo{s} }

// Applications returns an application.Repository view of the store.
func (s *Store) Applications() application.Repository { return applicationRepo{s} }

type permissionRepo struct{ s *Store }

func (r permissionRepo) FindAll(context.Context) ([]*permission.Permission, error) {
	return list[permission.Permission](r.s, permission.CollectionName, nil), nil
}

func (r permissionRepo) FindByID(_ context.Context, id string) (*permission.Permission, error) {
	return byID[permission.Permission](r.s, permission.CollectionName, id)
}

func (r permissionRepo) FindByName(_ context.Context, name string) (*permission.Permission, error) {
	return first(r.s, permission.CollectionName, func(p *permission.Permission) bool { return p.Name == name })
}

func (r permissionRepo) FindByIDs(_ context.Context, ids []string) ([]*permission.Permission, error) {
	return list(r.s, permission.CollectionName, func(p *permission.Permission) bool { return slices.Contains(ids, p.ID) }), nil
}

type teamPermissionRepo struct{ s *Store }

func (r teamPermissionRepo) FindAll(context.Context) ([]*teampermission.TeamPermission, error) {
	return list[teampermission.TeamPermission](r.s, teampermission.CollectionName, nil), nil
}

func (r teamPermissionRepo) FindByID(_ context.Context, id string) (*teampermission.TeamPermission, error) {
	return byID[teampermission.TeamPermission](r.s, teampermission.CollectionName, id)
}

func (r teamPermissionRepo) FindByName(_ context.Context, name string) (*teampermission.TeamPermission, error) {
	return first(r.s, teampermission.CollectionName, func(p *teampermission.TeamPermission) bool { return p.Name == name })
}

func (r teamPermissionRepo) FindByIDs(_ context.Context, ids []string) ([]*teampermission.TeamPermission, error) {
	return list(r.s, teampermission.CollectionName, func(p *teampermission.TeamPermission) bool { return slices.Contains(ids, p.ID) }), nil
}

type roleRepo struct{ s *Store }

func (r roleRepo) FindAll(context.Context) ([]*role.Role, error) {
	return list[role.Role](r.s, role.CollectionName, nil), nil
}

func (r roleRepo) FindByID(_ context.Context, id string) (*role.Role, error) {
	return byID[role.Role](r.s, role.CollectionName, id)
}

func (r roleRepo) FindByName(_ context.Context, name string) (*role.Role, error) {
	return first(r.s, role.CollectionName, func(v *role.Role) bool { return v.Name == name })
}

func (r roleRepo) FindPermissions(_ context.Context, roleID string) ([]*role.RolePermission, error) {
	return list(r.s, role.PermissionCollectionName, func(p *role.RolePermission) bool { return p.RoleID == roleID }), nil
}

func (r roleRepo) FindPermission(_ context.Context, roleID, permissionID string) (*role.RolePermission, error) {
	return first(r.s, role.PermissionCollectionName, func(p *role.RolePermission) bool {
		return p.RoleID == roleID && p.PermissionID == permissionID
	})
}

func (r roleRepo) FindPermissionsByPermission(_ context.Context, permissionID string) ([]*role.RolePermission, error) {
	return list(r.s, role.PermissionCollectionName, func(p *role.RolePermission) bool { return p.PermissionID == permissionID }), nil
}

type teamRoleRepo struct{ s *Store }

func (r teamRoleRepo) FindAll(context.Context) ([]*teamrole.TeamRole, error) {
	return list[teamrole.TeamRole](r.s, teamrole.CollectionName, nil), nil
}

func (r teamRoleRepo) FindByID(_ context.Context, id string) (*teamrole.TeamRole, error) {
	return byID[teamrole.TeamRole](r.s, teamrole.CollectionName, id)
}

func (r teamRoleRepo) FindByName(_ context.Context, name string) (*teamrole.TeamRole, error) {
	return first(r.s, teamrole.CollectionName, func(v *teamrole.TeamRole) bool { return v.Name == name })
}

func (r teamRoleRepo) FindPermissions(_ context.Context, teamRoleID string) ([]*teamrole.TeamRolePermission, error) {
	return list(r.s, teamrole.PermissionCollectionName, func(p *teamrole.TeamRolePermission) bool { return p.TeamRoleID == teamRoleID }), nil
}

func (r teamRoleRepo) FindPermission(_ context.Context, teamRoleID, permissionID string) (*teamrole.TeamRolePermission, error) {
	return first(r.s, teamrole.PermissionCollectionName, func(p *teamrole.TeamRolePermission) bool {
		return p.TeamRoleID == teamRoleID && p.PermissionID == permissionID
	})
}

func (r teamRoleRepo) FindPermissionsByPermission(_ context.Context, permissionID string) ([]*teamrole.TeamRolePermission, error) {
	return list(r.s, teamrole.PermissionCollectionName, func(p *teamrole.TeamRolePermission) bool { return p.PermissionID == permissionID }), nil
}

type viewRepo struct{ s *Store }

func (r viewRepo) FindAll(context.Context) ([]*view.View, error) {
	return list[view.View](r.s, view.CollectionName, nil), nil
}

func (r viewRepo) FindByID(_ context.Context, id string) (*view.View, error) {
	return byID[view.View](r.s, view.CollectionName, id)
}

func (r viewRepo) FindChildren(_ context.Context, parentViewID string) ([]*view.View, error) {
	return list(r.s, view.CollectionName, func(v *view.View) bool { return v.ParentViewID == parentViewID }), nil
}

type teamRepo struct{ s *Store }

func (r teamRepo) FindByID(_ context.Context, id string) (*team.Team, error) {
	return byID[team.Team](r.s, team.CollectionName, id)
}

func (r teamRepo) FindByView(_ context.Context, viewID string) ([]*team.Team, error) {
	return list(r.s, team.CollectionName, func(t *team.Team) bool { return t.ViewID == viewID }), nil
}

func (r teamRepo) FindByRole(_ context.Context, roleID string) ([]*team.Team, error) {
	return list(r.s, team.CollectionName, func(t *team.Team) bool { return t.RoleID == roleID }), nil
}

func (r teamRepo) FindPermissions(_ context.Context, teamID string) ([]*team.PermissionAssignment, error) {
	return list(r.s, team.PermissionCollectionName, func(a *team.PermissionAssignment) bool { return a.TeamID == teamID }), nil
}

func (r teamRepo) FindPermission(_ context.Context, teamID, permissionID string) (*team.PermissionAssignment, error) {
	return first(r.s, team.PermissionCollectionName, func(a *team.PermissionAssignment) bool {
		return a.TeamID == teamID && a.PermissionID == permissionID
	})
}

func (r teamRepo) FindPermissionsByPermission(_ context.Context, permissionID string) ([]*team.PermissionAssignment, error) {
	return list(r.s, team.PermissionCollectionName, func(a *team.PermissionAssignment) bool { return a.PermissionID == permissionID }), nil
}

type userRepo struct{ s *Store }

func (r userRepo) FindAll(context.Context) ([]*user.User, error) {
	return list[user.User](r.s, user.CollectionName, nil), nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	return byID[user.User](r.s, user.CollectionName, id)
}

func (r userRepo) FindByRole(_ context.Context, roleID string) ([]*user.User, error) {
	return list(r.s, user.CollectionName, func(u *user.User) bool { return u.RoleID == roleID }), nil
}

func (r userRepo) FindPermissions(_ context.Context, userID string) ([]*user.PermissionAssignment, error) {
	return list(r.s, user.PermissionCollectionName, func(a *user.PermissionAssignment) bool { return a.UserID == userID }), nil
}

func (r userRepo) FindPermission(_ context.Context, userID, permissionID string) (*user.PermissionAssignment, error) {
	return first(r.s, user.PermissionCollectionName, func(a *user.PermissionAssignment) bool {
		return a.UserID == userID && a.PermissionID == permissionID
	})
}

func (r userRepo) FindPermissionsByPermission(_ context.Context, permissionID string) ([]*user.PermissionAssignment, error) {
	return list(r.s, user.PermissionCollectionName, func(a *user.PermissionAssignment) bool { return a.PermissionID == permissionID }), nil
}

type membershipRepo struct{ s *Store }

func (r membershipRepo) FindViewMembershipByID(_ context.Context, id string) (*membership.ViewMembership, error) {
	return byID[membership.ViewMembership](r.s, membership.ViewCollectionName, id)
}

func (r membershipRepo) FindViewMembership(_ context.Context, viewID, userID string) (*membership.ViewMembership, error) {
	return first(r.s, membership.ViewCollectionName, func(m *membership.ViewMembership) bool {
		return m.ViewID == viewID && m.UserID == userID
	})
}

func (r membershipRepo) FindViewMembershipsByUser(_ context.Context, userID string) ([]*membership.ViewMembership, error) {
	return list(r.s, membership.ViewCollectionName, func(m *membership.ViewMembership) bool { return m.UserID == userID }), nil
}

func (r membershipRepo) FindViewMembershipsByView(_ context.Context, viewID string) ([]*membership.ViewMembership, error) {
	return list(r.s, membership.ViewCollectionName, func(m *membership.ViewMembership) bool { return m.ViewID == viewID }), nil
}

func (r membershipRepo) FindTeamMembershipByID(_ context.Context, id string) (*membership.TeamMembership, error) {
	return byID[membership.TeamMembership](r.s, membership.TeamCollectionName, id)
}

func (r membershipRepo) FindTeamMembership(_ context.Context, teamID, userID string) (*membership.TeamMembership, error) {
	return first(r.s, membership.TeamCollectionName, func(m *membership.TeamMembership) bool {
		return m.TeamID == teamID && m.UserID == userID
	})
}

func (r membershipRepo) FindTeamMembershipsByUser(_ context.Context, userID string) ([]*membership.TeamMembership, error) {
	return list(r.s, membership.TeamCollectionName, func(m *membership.TeamMembership) bool { return m.UserID == userID }), nil
}

func (r membershipRepo) FindTeamMembershipsByTeam(_ context.Context, teamID string) ([]*membership.TeamMembership, error) {
	return list(r.s, membership.TeamCollectionName, func(m *membership.TeamMembership) bool { return m.TeamID == teamID }), nil
}

func (r membershipRepo) FindTeamMembershipsByViewMembership(_ context.Context, viewMembershipID string) ([]*membership.TeamMembership, error) {
	return list(r.s, membership.TeamCollectionName, func(m *membership.TeamMembership) bool {
		return m.ViewMembershipID == viewMembershipID
	}), nil
}

func (r membershipRepo) FindTeamMembershipsByRole(_ context.Context, roleID string) ([]*membership.TeamMembership, error) {
	return list(r.s, membership.TeamCollectionName, func(m *membership.TeamMembership) bool { return m.RoleID == roleID }), nil
}

type applicationRepo struct{ s *Store }

func (r applicationRepo) FindByID(_ context.Context, id string) (*application.Application, error) {
	return byID[application.Application](r.s, application.CollectionName, id)
}

func (r applicationRepo) FindByView(_ context.Context, viewID string) ([]*application.Application, error) {
	return list(r.s, application.CollectionName, func(a *application.Application) bool { return a.ViewID == viewID }), nil
}

func (r applicationRepo) FindInstanceByID(_ context.Context, id string) (*application.Instance, error) {
	return byID[application.Instance](r.s, application.InstanceCollectionName, id)
}

func (r applicationRepo) FindInstancesByTeam(_ context.Context, teamID string) ([]*application.Instance, error) {
	return list(r.s, application.InstanceCollectionName, func(i *application.Instance) bool { return i.TeamID == teamID }), nil
}

func (r applicationRepo) FindInstancesByApplication(_ context.Context, applicationID string) ([]*application.Instance, error) {
	return list(r.s, application.InstanceCollectionName, func(i *application.Instance) bool {
		return i.ApplicationID == applicationID
	}), nil
}
