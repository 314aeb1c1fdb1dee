package membership

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
)

// mongoRepository provides MongoDB access to membership data
type mongoRepository struct {
	views *mongo.Collection
	teams *mongo.Collection
}

// NewRepository creates a new membership repository with instrumentation
func NewRepository(db *mongo.Database) Repository {
	return newInstrumentedRepository(&mongoRepository{
		views: db.Collection(ViewCollectionName),
		teams: db.Collection(TeamCollectionName),
	})
}

func (r *mongoRepository) FindViewMembershipByID(ctx context.Context, id string) (*ViewMembership, error) {
	return repository.FindOne[ViewMembership](ctx, r.views, bson.M{"_id": id})
}

func (r *mongoRepository) FindViewMembership(ctx context.Context, viewID, userID string) (*ViewMembership, error) {
	return repository.FindOne[ViewMembership](ctx, r.views, bson.M{"viewId": viewID, "userId": userID})
}

func (r *mongoRepository) FindViewMembershipsByUser(ctx context.Context, userID string) ([]*ViewMembership, error) {
	return repository.FindMany[ViewMembership](ctx, r.views, bson.M{"userId": userID})
}

func (r *mongoRepository) FindViewMembershipsByView(ctx context.Context, viewID string) ([]*ViewMembership, error) {
	return repository.FindMany[ViewMembership](ctx, r.views, bson.M{"viewId": viewID})
}

func (r *mongoRepository) FindTeamMembershipByID(ctx context.Context, id string) (*TeamMembership, error) {
	return repository.FindOne[TeamMembership](ctx, r.teams, bson.M{"_id": id})
}

func (r *mongoRepository) FindTeamMembership(ctx context.Context, teamID, userID string) (*TeamMembership, error) {
	return repository.FindOne[TeamMembership](ctx, r.teams, bson.M{"teamId": teamID, "userId": userID})
}

func (r *mongoRepository) FindTeamMembershipsByUser(ctx context.Context, userID string) ([]*TeamMembership, error) {
	return repository.FindMany[TeamMembership](ctx, r.teams, bson.M{"userId": userID})
}

func (r *mongoRepository) FindTeamMembershipsByTeam(ctx context.Context, teamID string) ([]*TeamMembership, error) {
	return repository.FindMany[TeamMembership](ctx, r.teams, bson.M{"teamId": teamID})
}

// FindTeamMembershipsByViewMembership returns the memberships oldest first.
func (r *mongoRepository) FindTeamMembershipsByViewMembership(ctx context.Context, viewMembershipID string) ([]*TeamMembership, error) {
	return repository.FindMany[TeamMembership](ctx, r.teams, bson.M{"viewMembershipId": viewMembershipID}, oldestFirst())
}

func oldestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}

func (r *mongoRepository) FindTeamMembershipsByRole(ctx context.Context, roleID string) ([]*TeamMembership, error) {
	return repository.FindMany[TeamMembership](ctx, r.teams, bson.M{"roleId": roleID})
}
