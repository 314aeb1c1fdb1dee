package view

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
)

type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a new view repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		collection: db.Collection(CollectionName),
	})
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]*View, error) {
	return repository.FindMany[View](ctx, r.collection, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*View, error) {
	return repository.FindOne[View](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoRepository) FindChildren(ctx context.Context, parentViewID string) ([]*View, error) {
	return repository.FindMany[View](ctx, r.collection, bson.M{"parentViewId": parentViewID})
}
