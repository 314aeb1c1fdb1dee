package teamrole

import "context"

// Repository defines read access to team roles and their grants.
// Writes go through the UnitOfWork. Single-entity finders return
// repository.ErrNotFound when nothing matches.
type Repository interface {
	FindAll(ctx context.Context) ([]*TeamRole, error)
	FindByID(ctx context.Context, id string) (*TeamRole, error)
	FindByName(ctx context.Context, name string) (*TeamRole, error)

	// FindPermissions returns the grants of one team role.
	FindPermissions(ctx context.Context, teamRoleID string) ([]*TeamRolePermission, error)

	// FindPermission returns the grant of permissionID to teamRoleID.
	FindPermission(ctx context.Context, teamRoleID, permissionID string) (*TeamRolePermission, error)

	// FindPermissionsByPermission returns every grant of one permission.
	FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*TeamRolePermission, error)
}
