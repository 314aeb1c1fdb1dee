package teamrole

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
)

// mongoRepository provides MongoDB access to team role data
type mongoRepository struct {
	roles       *mongo.Collection
	permissions *mongo.Collection
}

// NewRepository creates a new team role repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		roles:       db.Collection(CollectionName),
		permissions: db.Collection(PermissionCollectionName),
	})
}

// FindAll finds all team roles
func (r *mongoRepository) FindAll(ctx context.Context) ([]*TeamRole, error) {
	return repository.FindMany[TeamRole](ctx, r.roles, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
}

// FindByID finds a team role by ID
func (r *mongoRepository) FindByID(ctx context.Context, id string) (*TeamRole, error) {
	return repository.FindOne[TeamRole](ctx, r.roles, bson.M{"_id": id})
}

// FindByName finds a team role by name
func (r *mongoRepository) FindByName(ctx context.Context, name string) (*TeamRole, error) {
	return repository.FindOne[TeamRole](ctx, r.roles, bson.M{"name": name})
}

func (r *mongoRepository) FindPermissions(ctx context.Context, teamRoleID string) ([]*TeamRolePermission, error) {
	return repository.FindMany[TeamRolePermission](ctx, r.permissions, bson.M{"teamRoleId": teamRoleID})
}

func (r *mongoRepository) FindPermission(ctx context.Context, teamRoleID, permissionID string) (*TeamRolePermission, error) {
	return repository.FindOne[TeamRolePermission](ctx, r.permissions, bson.M{"teamRoleId": teamRoleID, "permissionId": permissionID})
}

func (r *mongoRepository) FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*TeamRolePermission, error) {
	return repository.FindMany[TeamRolePermission](ctx, r.permissions, bson.M{"permissionId": permissionID})
}
