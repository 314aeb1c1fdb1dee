package permission

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

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*Permission, error) {
	return repository.Instrument(ctx, CollectionName, "FindAll", func() ([]*Permission, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*Permission, error) {
	return repository.Instrument(ctx, CollectionName, "FindByID", func() (*Permission, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByName(ctx context.Context, name string) (*Permission, error) {
	return repository.Instrument(ctx, CollectionName, "FindByName", func() (*Permission, error) {
		return r.inner.FindByName(ctx, name)
	})
}

func (r *instrumentedRepository) FindByIDs(ctx context.Context, ids []string) ([]*Permission, error) {
	return repository.Instrument(ctx, CollectionName, "FindByIDs", func() ([]*Permission, error) {
		return r.inner.FindByIDs(ctx, ids)
	})
}
