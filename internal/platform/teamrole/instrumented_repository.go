package teamrole

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

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*TeamRole, error) {
	return repository.Instrument(ctx, CollectionName, "FindAll", func() ([]*TeamRole, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*TeamRole, error) {
	return repository.Instrument(ctx, CollectionName, "FindByID", func() (*TeamRole, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByName(ctx context.Context, name string) (*TeamRole, error) {
	return repository.Instrument(ctx, CollectionName, "FindByName", func() (*TeamRole, error) {
		return r.inner.FindByName(ctx, name)
	})
}

func (r *instrumentedRepository) FindPermissions(ctx context.Context, teamRoleID string) ([]*TeamRolePermission, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermissions", func() ([]*TeamRolePermission, error) {
		return r.inner.FindPermissions(ctx, teamRoleID)
	})
}

func (r *instrumentedRepository) FindPermission(ctx context.Context, teamRoleID, permissionID string) (*TeamRolePermission, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermission", func() (*TeamRolePermission, error) {
		return r.inner.FindPermission(ctx, teamRoleID, permissionID)
	})
}

func (r *instrumentedRepository) FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*TeamRolePermission, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermissionsByPermission", func() ([]*TeamRolePermission, error) {
		return r.inner.FindPermissionsByPermission(ctx, permissionID)
	})
}
