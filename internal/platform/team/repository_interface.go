package team

import "context"

// Repository defines read access to teams and their direct permission
// assignments. Single-entity finders return repository.ErrNotFound.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Team, error)
	FindByView(ctx context.Context, viewID string) ([]*Team, error)

	// FindByRole returns the teams whose TeamRole is roleID.
	FindByRole(ctx context.Context, roleID string) ([]*Team, error)

	FindPermissions(ctx context.Context, teamID string) ([]*PermissionAssignment, error)
	FindPermission(ctx context.Context, teamID, permissionID string) (*PermissionAssignment, error)
	FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*PermissionAssignment, error)
}
