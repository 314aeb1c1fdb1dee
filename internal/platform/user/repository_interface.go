package user

import "context"

// Repository defines read access to users and their direct grants.
type Repository interface {
	FindAll(ctx context.Context) ([]*User, error)
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByRole returns the users whose system Role is roleID.
	FindByRole(ctx context.Context, roleID string) ([]*User, error)

	FindPermissions(ctx context.Context, userID string) ([]*PermissionAssignment, error)
	FindPermission(ctx context.Context, userID, permissionID string) (*PermissionAssignment, error)
	FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*PermissionAssignment, error)
}
