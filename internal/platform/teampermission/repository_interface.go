package teampermission

import "context"

// Repository defines read access to team and view permissions.
// Writes go through the UnitOfWork. Finders for a single permission return
// repository.ErrNotFound when it does not exist.
type Repository interface {
	FindAll(ctx context.Context) ([]*TeamPermission, error)
	FindByID(ctx context.Context, id string) (*TeamPermission, error)
	FindByName(ctx context.Context, name string) (*TeamPermission, error)
	FindByIDs(ctx context.Context, ids []string) ([]*TeamPermission, error)
}
