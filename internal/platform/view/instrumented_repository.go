package view

import (
	"context"

	"go.player.tech/internal/common/repository"
)

type instrumentedRepository struct {
	inner Repository
}

func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindAll(ctx context.Context) ([]*View, error) {
	return repository.Instrument(ctx, CollectionName, "FindAll", func() ([]*View, error) {
		return r.inner.FindAll(ctx)
	})
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*View, error) {
	return repository.Instrument(ctx, CollectionName, "FindByID", func() (*View, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindChildren(ctx context.Context, parentViewID string) ([]*View, error) {
	return repository.Instrument(ctx, CollectionName, "FindChildren", func() ([]*View, error) {
		return r.inner.FindChildren(ctx, parentViewID)
	})
}
