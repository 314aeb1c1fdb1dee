package role

import (
	"context"

	"go.player.tech/internal/common/repository"
)

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

// newInstrumentedRepository creates an instrumented wrapper around a Repository
func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*Role, error) {
	return repository.Instrument(ctx, CollectionName, "FindAll", func() ([]*Role, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*Role, error) {
	return repository.Instrument(ctx, CollectionName, "FindByID", func() (*Role, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByName(ctx context.Context, name string) (*Role, error) {
	return repository.Instrument(ctx, CollectionName, "FindByName", func() (*Role, error) {
		return r.inner.FindByName(ctx, name)
	})
}

func (r *instrumentedRepository) FindPermissions(ctx context.Context, roleID string) ([]*RolePermission, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermissions", func() ([]*RolePermission, error) {
		return r.inner.FindPermissions(ctx, roleID)
	})
}

func (r *instrumentedRepository) FindPermission(ctx context.Context, roleID, permissionID string) (*RolePermission, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermission", func() (*RolePermission, error) {
		return r.inner.FindPermission(ctx, roleID, permissionID)
	})
}

func (r *instrumentedRepository) FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*RolePermission, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermissionsByPermission", func() ([]*RolePermission, error) {
		return r.inner.FindPermissionsByPermission(ctx, permissionID)
	})
}
