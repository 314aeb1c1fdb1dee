package user

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
)

// mongoRepository provides MongoDB access to user data
type mongoRepository struct {
	users       *mongo.Collection
	assignments *mongo.Collection
}

// NewRepository creates a new user repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		users:       db.Collection(CollectionName),
		assignments: db.Collection(PermissionCollectionName),
	})
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]*User, error) {
	return repository.FindMany[User](ctx, r.users, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.FindOne[User](ctx, r.users, bson.M{"_id": id})
}

func (r *mongoRepository) FindByRole(ctx context.Context, roleID string) ([]*User, error) {
	return repository.FindMany[User](ctx, r.users, bson.M{"roleId": roleID})
}

func (r *mongoRepository) FindPermissions(ctx context.Context, userID string) ([]*PermissionAssignment, error) {
	return repository.FindMany[PermissionAssignment](ctx, r.assignments, bson.M{"userId": userID})
}

func (r *mongoRepository) FindPermission(ctx context.Context, userID, permissionID string) (*PermissionAssignment, error) {
	return repository.FindOne[PermissionAssignment](ctx, r.assignments, bson.M{"userId": userID, "permissionId": permissionID})
}

func (r *mongoRepository) FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*PermissionAssignment, error) {
	return repository.FindMany[PermissionAssignment](ctx, r.assignments, bson.M{"permissionId": permissionID})
}
