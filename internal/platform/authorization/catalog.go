// Package authorization implements Player's permission model: the static
// permission catalog, claims materialization, resource scope resolution and
// the two-tier authorization decision (system override, then View or Team
// scoped check).
package authorization

import (
	"go.player.tech/internal/platform/teampermission"
)

// SystemPermission is a capability checked independent of any View or Team.
type SystemPermission string

const (
	CreateViews        SystemPermission = "CreateViews"
	ViewViews          SystemPermission = "ViewViews"
	EditViews          SystemPermission = "EditViews"
	ManageViews        SystemPermission = "ManageViews"
	ViewApplications   SystemPermission = "ViewApplications"
	EditApplications   SystemPermission = "EditApplications"
	ManageApplications SystemPermission = "ManageApplications"
	ViewUsers          SystemPermission = "ViewUsers"
	ManageUsers        SystemPermission = "ManageUsers"
	ViewRoles          SystemPermission = "ViewRoles"
	ManageRoles        SystemPermission = "ManageRoles"
)

// ViewPermission is a capability that holds across every Team of a View.
type ViewPermission string

const (
	ViewView   ViewPermission = "ViewView"
	EditView   ViewPermission = "EditView"
	ManageView ViewPermission = "ManageView"
)

// TeamPermission is a capability that holds for a single Team.
type TeamPermission string

const (
	ViewTeam   TeamPermission = "ViewTeam"
	EditTeam   TeamPermission = "EditTeam"
	ManageTeam TeamPermission = "ManageTeam"
)

// Definition describes one built-in catalog entry.
type Definition struct {
	Name        string
	Description string
}

// SystemPermissions returns the built-in system permission catalog.
func SystemPermissions() []Definition {
	return []Definition{
		{string(CreateViews), "Create new Views"},
		{string(ViewViews), "View all Views and their Teams"},
		{string(EditViews), "Edit any View"},
		{string(ManageViews), "Manage any View, its Teams and memberships"},
		{string(ViewApplications), "View application templates"},
		{string(EditApplications), "Edit application templates"},
		{string(ManageApplications), "Manage application templates"},
		{string(ViewUsers), "View users"},
		{string(ManageUsers), "Manage users and their permissions"},
		{string(ViewRoles), "View roles and team roles"},
		{string(ManageRoles), "Manage roles, team roles and their permissions"},
	}
}

// ViewPermissions returns the built-in View-scoped permission catalog.
func ViewPermissions() []Definition {
	return []Definition{
		{string(ViewView), "View this View"},
		{string(EditView), "Edit this View"},
		{string(ManageView), "Manage this View, its Teams and memberships"},
	}
}

// TeamPermissions returns the built-in Team-scoped permission catalog.
func TeamPermissions() []Definition {
	return []Definition{
		{string(ViewTeam), "View this Team"},
		{string(EditTeam), "Edit this Team"},
		{string(ManageTeam), "Manage this Team and its memberships"},
	}
}

// ScopedPermission is the tagged transport form of a View or Team
// permission. The Kind tag keeps names from the two catalogs apart.
type ScopedPermission struct {
	Kind  teampermission.Kind `json:"kind"`
	Value string              `json:"value"`
}

// ForView tags a View permission.
func ForView(p ViewPermission) ScopedPermission {
	return ScopedPermission{Kind: teampermission.KindView, Value: string(p)}
}

// ForTeam tags a Team permission.
func ForTeam(p TeamPermission) ScopedPermission {
	return ScopedPermission{Kind: teampermission.KindTeam, Value: string(p)}
}

func (p ScopedPermission) String() string {
	return string(p.Kind) + ":" + p.Value
}
