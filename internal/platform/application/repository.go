package application

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
)

// Repository defines read access to applications and their team instances.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Application, error)
	FindByView(ctx context.Context, viewID string) ([]*Application, error)
	FindInstanceByID(ctx context.Context, id string) (*Instance, error)
	FindInstancesByTeam(ctx context.Context, teamID string) ([]*Instance, error)
	FindInstancesByApplication(ctx context.Context, applicationID string) ([]*Instance, error)
}

type mongoRepository struct {
	applications *mongo.Collection
	instances    *mongo.Collection
}

// NewRepository creates a new application repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return &instrumentedRepository{inner: &mongoRepository{
		applications: db.Collection(CollectionName),
		instances:    db.Collection(InstanceCollectionName),
	}}
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Application, error) {
	return repository.FindOne[Application](ctx, r.applications, bson.M{"_id": id})
}

func (r *mongoRepository) FindByView(ctx context.Context, viewID string) ([]*Application, error) {
	return repository.FindMany[Application](ctx, r.applications, bson.M{"viewId": viewID}, options.Find().SetSort(bson.M{"name": 1}))
}

func (r *mongoRepository) FindInstanceByID(ctx context.Context, id string) (*Instance, error) {
	return repository.FindOne[Instance](ctx, r.instances, bson.M{"_id": id})
}

func (r *mongoRepository) FindInstancesByTeam(ctx context.Context, teamID string) ([]*Instance, error) {
	return repository.FindMany[Instance](ctx, r.instances, bson.M{"teamId": teamID}, options.Find().SetSort(bson.M{"displayOrder": 1}))
}

func (r *mongoRepository) FindInstancesByApplication(ctx context.Context, applicationID string) ([]*Instance, error) {
	return repository.FindMany[Instance](ctx, r.instances, bson.M{"applicationId": applicationID})
}

type instrumentedRepository struct {
	inner Repository
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (*Application, error) {
	return repository.Instrument(ctx, CollectionName, "FindByID", func() (*Application, error) {
		return r.inner.FindByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindByView(ctx context.Context, viewID string) ([]*Application, error) {
	return repository.Instrument(ctx, CollectionName, "FindByView", func() ([]*Application, error) {
		return r.inner.FindByView(ctx, viewID)
	})
}

func (r *instrumentedRepository) FindInstanceByID(ctx context.Context, id string) (*Instance, error) {
	return repository.Instrument(ctx, InstanceCollectionName, "FindInstanceByID", func() (*Instance, error) {
		return r.inner.FindInstanceByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindInstancesByTeam(ctx context.Context, teamID string) ([]*Instance, error) {
	return repository.Instrument(ctx, InstanceCollectionName, "FindInstancesByTeam", func() ([]*Instance, error) {
		return r.inner.FindInstancesByTeam(ctx, teamID)
	})
}

func (r *instrumentedRepository) FindInstancesByApplication(ctx context.Context, applicationID string) ([]*Instance, error) {
	return repository.Instrument(ctx, InstanceCollectionName, "FindInstancesByApplication", func() ([]*Instance, error) {
		return r.inner.FindInstancesByApplication(ctx, applicationID)
	})
}
