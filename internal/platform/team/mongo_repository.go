package team

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
)

// mongoRepository provides MongoDB access to team data
type mongoRepository struct {
	teams       *mongo.Collection
	assignments *mongo.Collection
}

// NewRepository creates a new team repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		teams:       db.Collection(CollectionName),
		assignments: db.Collection(PermissionCollectionName),
	})
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Team, error) {
	return repository.FindOne[Team](ctx, r.teams, bson.M{"_id": id})
}

func (r *mongoRepository) FindByView(ctx context.Context, viewID string) ([]*Team, error) {
	return repository.FindMany[Team](ctx, r.teams, bson.M{"viewId": viewID}, options.Find().SetSort(bson.M{"name": 1}))
}

func (r *mongoRepository) FindByRole(ctx context.Context, roleID string) ([]*Team, error) {
	return repository.FindMany[Team](ctx, r.teams, bson.M{"roleId": roleID})
}

func (r *mongoRepository) FindPermissions(ctx context.Context, teamID string) ([]*PermissionAssignment, error) {
	return repository.FindMany[PermissionAssignment](ctx, r.assignments, bson.M{"teamId": teamID})
}

func (r *mongoRepository) FindPermission(ctx context.Context, teamID, permissionID string) (*PermissionAssignment, error) {
	return repository.FindOne[PermissionAssignment](ctx, r.assignments, bson.M{"teamId": teamID, "permissionId": permissionID})
}

func (r *mongoRepository) FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*PermissionAssignment, error) {
	return repository.FindMany[PermissionAssignment](ctx, r.assignments, bson.M{"permissionId": permissionID})
}
