package teampermission

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

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*TeamPermission, error) {
	return repository.Instrument(ctx, CollectionName, "FindAll", func() ([]*TeamPermission, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*TeamPermission, error) {
	return repository.Instrument(ctx, CollectionName, "FindByID", func() (*TeamPermission, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByName(ctx context.Context, name string) (*TeamPermission, error) {
	return repository.Instrument(ctx, CollectionName, "FindByName", func() (*TeamPermission, error) {
		return r.inner.FindByName(ctx, name)
	})
}

func (r *instrumentedRepository) FindByIDs(ctx context.Context, ids []string) ([]*TeamPermission, error) {
	return repository.Instrument(ctx, CollectionName, "FindByIDs", func() ([]*TeamPermission, error) {
		return r.inner.FindByIDs(ctx, ids)
	})
}
