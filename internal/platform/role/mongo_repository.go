package role

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
)

// mongoRepository provides MongoDB access to role data
type mongoRepository struct {
	roles       *mongo.Collection
	permissions *mongo.Collection
}

// NewRepository creates a new role repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		roles:       db.Collection(CollectionName),
		permissions: db.Collection(PermissionCollectionName),
	})
}

// FindAll finds all roles
func (r *mongoRepository) FindAll(ctx context.Context) ([]*Role, error) {
	return repository.FindMany[Role](ctx, r.roles, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
}

// FindByID finds a role by ID
func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Role, error) {
	return repository.FindOne[Role](ctx, r.roles, bson.M{"_id": id})
}

// FindByName finds a role by name
func (r *mongoRepository) FindByName(ctx context.Context, name string) (*Role, error) {
	return repository.FindOne[Role](ctx, r.roles, bson.M{"name": name})
}

func (r *mongoRepository) FindPermissions(ctx context.Context, roleID string) ([]*RolePermission, error) {
	return repository.FindMany[RolePermission](ctx, r.permissions, bson.M{"roleId": roleID})
}

func (r *mongoRepository) FindPermission(ctx context.Context, roleID, permissionID string) (*RolePermission, error) {
	return repository.FindOne[RolePermission](ctx, r.permissions, bson.M{"roleId": roleID, "permissionId": permissionID})
}

func (r *mongoRepository) FindPermissionsByPermission(ctx context.Context, permissionID string) ([]*RolePermission, error) {
	return repository.FindMany[RolePermission](ctx, r.permissions, bson.M{"permissionId": permissionID})
}
