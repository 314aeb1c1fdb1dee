package permission

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
)

// mongoRepository provides MongoDB access to permission data
type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a new permission repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		collection: db.Collection(CollectionName),
	})
}

// FindAll finds all permissions ordered by name
func (r *mongoRepository) FindAll(ctx context.Context) ([]*Permission, error) {
	return repository.FindMany[Permission](ctx, r.collection, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
}

// FindByID finds a permission by ID
func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Permission, error) {
	return repository.FindOne[Permission](ctx, r.collection, bson.M{"_id": id})
}

// FindByName finds a permission by its unique name
func (r *mongoRepository) FindByName(ctx context.Context, name string) (*Permission, error) {
	return repository.FindOne[Permission](ctx, r.collection, bson.M{"name": name})
}

// FindByIDs finds the permissions with the given IDs; missing IDs are skipped
func (r *mongoRepository) FindByIDs(ctx context.Context, ids []string) ([]*Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return repository.FindMany[Permission](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}
