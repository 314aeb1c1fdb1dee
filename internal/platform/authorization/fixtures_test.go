package authorization

import (
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/teampermission"
)

// newCatalogStore returns a store holding the built-in catalog. Permission
// ids are "perm-<name>" and team permission ids "tp-<name>".
func newCatalogStore() *memstore.Store {
	s := memstore.New()
	for _, d := range SystemPermissions() {
		s.MustPut(&permission.Permission{ID: "perm-" + d.Name, Name: d.Name, Immutable: true})
	}
	for _, d := range ViewPermissions() {
		s.MustPut(&teampermission.TeamPermission{ID: "tp-" + d.Name, Name: d.Name, Kind: teampermission.KindView, Immutable: true})
	}
	for _, d := range TeamPermissions() {
		s.MustPut(&teampermission.TeamPermission{ID: "tp-" + d.Name, Name: d.Name, Kind: teampermission.KindTeam, Immutable: true})
	}
	return s
}

func repositoriesFor(s *memstore.Store) Repositories {
	return Repositories{
		Permissions:     s.Permissions(),
		TeamPermissions: s.TeamPermissions(),
		Roles:           s.Roles(),
		TeamRoles:       s.TeamRoles(),
		Views:           s.Views(),
		Teams:           s.Teams(),
		Users:           s.Users(),
		Memberships:     s.Memberships(),
		Applications:    s.Applications(),
	}
}
