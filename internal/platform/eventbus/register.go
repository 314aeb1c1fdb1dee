package eventbus

import (
	"sync"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
	"go.player.tech/internal/platform/view"
)

var registerOnce sync.Once

// RegisterEvents makes every aggregate's lifecycle events decodable from
// the wire. It is safe to call more than once.
func RegisterEvents() {
	registerOnce.Do(func() {
		events.Register[*permission.Permission]("permission")
		events.Register[*teampermission.TeamPermission]("teampermission")
		events.Register[*role.Role]("role")
		events.Register[*role.RolePermission]("rolepermission")
		events.Register[*teamrole.TeamRole]("teamrole")
		events.Register[*teamrole.TeamRolePermission]("teamrolepermission")
		events.Register[*view.View]("view")
		events.Register[*team.Team]("team")
		events.Register[*team.PermissionAssignment]("teampermissionassignment")
		events.Register[*user.User]("user")
		events.Register[*user.PermissionAssignment]("userpermissionassignment")
		events.Register[*membership.ViewMembership]("viewmembership")
		events.Register[*membership.TeamMembership]("teammembership")
		events.Register[*application.Application]("application")
		events.Register[*application.Instance]("applicationinstance")
	})
}
