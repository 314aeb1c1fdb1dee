package catalog

import (
	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/teamrole"
)

// Built-in role names
const (
	AdministratorRoleName    = "Administrator"
	ContentDeveloperRoleName = "Content Developer"
	ViewerRoleName           = "Viewer"
	ObserverTeamRoleName     = "Observer"
)

// RoleDefinition describes a built-in Role or TeamRole. Permissions are
// catalog names and are granted only when the role is first created.
type RoleDefinition struct {
	Name           string
	Description    string
	AllPermissions bool
	Immutable      bool
	Permissions    []string
}

// AdministratorRole holds every system permission and cannot be changed.
var AdministratorRole = RoleDefinition{
	Name:           AdministratorRoleName,
	Description:    "Full access to everything",
	AllPermissions: true,
	Immutable:      true,
}

// ContentDeveloperRole builds views and application templates.
var ContentDeveloperRole = RoleDefinition{
	Name:        ContentDeveloperRoleName,
	Description: "Creates and edits views and applications",
	Permissions: names(
		authorization.CreateViews, authorization.ViewViews, authorization.EditViews,
		authorization.ViewApplications, authorization.EditApplications,
		authorization.ViewUsers,
	),
}

// ViewerRole can look at everything but change nothing.
var ViewerRole = RoleDefinition{
	Name:        ViewerRoleName,
	Description: "Read-only access to views and applications",
	Permissions: names(authorization.ViewViews, authorization.ViewApplications),
}

// ViewAdminTeamRole is the default role of view creator teams.
var ViewAdminTeamRole = RoleDefinition{
	Name:           teamrole.DefaultViewCreatorRoleName,
	Description:    "Full control of the view",
	AllPermissions: true,
}

// MemberTeamRole is the default role of new teams.
var MemberTeamRole = RoleDefinition{
	Name:        teamrole.DefaultTeamRoleName,
	Description: "Regular team member",
	Permissions: []string{string(authorization.ViewView), string(authorization.ViewTeam), string(authorization.EditTeam)},
}

// ObserverTeamRole can see the team and its view.
var ObserverTeamRole = RoleDefinition{
	Name:        ObserverTeamRoleName,
	Description: "Read-only team member",
	Permissions: []string{string(authorization.ViewView), string(authorization.ViewTeam)},
}

// AllRoles returns the built-in system roles.
func AllRoles() []RoleDefinition {
	return []RoleDefinition{AdministratorRole, ContentDeveloperRole, ViewerRole}
}

// AllTeamRoles returns the built-in team roles.
func AllTeamRoles() []RoleDefinition {
	return []RoleDefinition{ViewAdminTeamRole, MemberTeamRole, ObserverTeamRole}
}

func names(perms ...authorization.SystemPermission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
