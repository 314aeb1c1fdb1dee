package permission

import "context"

// Repository defines read access to system permissions.
// Writes go through the UnitOfWork. Finders for a single permission return
// repository.ErrNotFound when it does not exist.
type Repository interface {
	FindAll(ctx context.Context) ([]*Permission, error)
	FindByID(ctx context.Context, id string) (*Permission, error)
	FindByName(ctx context.Context, name string) (*Permission, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Permission, error)
}
