package team

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

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*Team, error) {
	return repository.Instrument(ctx, CollectionName, "FindByID", func() (*Team, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByView(ctx context.Context, viewID string) ([]*Team, error) {
	return repository.Instrument(ctx, CollectionName, "FindByView", func() ([]*Team, error) {
		return r.inner.FindByView(ctx, viewID)
	})
}

func (r *instrumentedRepository) FindByRole(ctx context.Context, roleID string) ([]*Team, error) {
	return repository.Instrument(ctx, CollectionName, "FindByRole", func() ([]*Team, error) {
		return r.inner.FindByRole(ctx, roleID)
	})
}

func (r *instrumentedRepository) FindPermissions(ctx context.Context, teamID string) ([]*PermissionAssignment, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermissions", func() ([]*PermissionAssignment, error) {
		return r.inner.FindPermissions(ctx, teamID)
	})
}

func (r *instrumentedRepository) FindPermission(ctx context.Context, teamID, permissionID string) (*PermissionAssignment, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermission", func() (*PermissionAssignment, error) {
		return r.inner.FindPermission(ctx, teamID, permissionID)
	})
}

func (r *instrumentedRepository) FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*PermissionAssignment, error) {
	return repository.Instrument(ctx, PermissionCollectionName, "FindPermissionsByPermission", func() ([]*PermissionAssignment, error) {
		return r.inner.FindPermissionsByPermission(ctx, permissionID)
	})
}
