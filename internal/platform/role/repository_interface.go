package role

import "context"

// Repository defines read access to roles and their permission grants.
// Writes go through the UnitOfWork. Single-entity finders return
// repository.ErrNotFound when nothing matches.
type Repository interface {
	FindAll(ctx context.Context) ([]*Role, error)
	FindByID(ctx context.Context, id string) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)

	// FindPermissions returns the grants of one role.
	FindPermissions(ctx context.Context, roleID string) ([]*RolePermission, error)

	// FindPermission returns the grant of permissionID to roleID.
	FindPermission(ctx context.Context, roleID, permissionID string) (*RolePermission, error)

	// FindPermissionsByPermission returns every grant of one permission.
	FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*RolePermission, error)
}
