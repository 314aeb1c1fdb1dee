package user

import (
	"context"

	"go.player.tech/internal/common/repository"
)

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*User, error) {
	return repository.Instrument(ctx, CollectionName, "FindAll", func() ([]*User, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.Instrument(ctx, CollectionName, "FindByID", func() (*User, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByRole(ctx context.Context, roleID string) ([]*User, error) {
	return repository.Instrument(ctx, CollectionName, "FindByRole", func() ([]*User, error) {
		return r.inner.FindByRole(ctx, roleID)
	})
}

func (r *instrumentedRepository) FindPermissions(ctx context.Context, userID string) ([]*PermissionAssignment, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermissions", func() ([]*PermissionAssignment, error) {
		return r.inner.FindPermissions(ctx, userID)
	})
}

func (r *instrumentedRepository) FindPermission(ctx context.Context, userID, permissionID string) (*PermissionAssignment, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermission", func() (*PermissionAssignment, error) {
		return r.inner.FindPermission(ctx, userID, permissionID)
	})
}

func (r *instrumentedRepository) FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*PermissionAssignment, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermissionsByPermission", func() ([]*PermissionAssignment, error) {
		return r.inner.FindPermissionsByPermission(ctx, permissionID)
	})
}
