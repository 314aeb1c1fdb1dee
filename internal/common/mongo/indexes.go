package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexDefinition defines a MongoDB index
type IndexDefinition struct {
	Collection string
	Keys       bson.D
	Options    *options.IndexOptions
}

// Unique reports whether the index enforces uniqueness.
func (d IndexDefinition) Unique() bool {
	return d.Options != nil && d.Options.Unique != nil && *d.Options.Unique
}

// IndexInitializer creates indexes on startup
type IndexInitializer struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewIndexInitializer creates a new index initializer
func NewIndexInitializer(db *mongo.Database, logger *slog.Logger) *IndexInitializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexInitializer{db: db, logger: logger}
}

// Initialize creates all required indexes. A failing unique index is fatal
// since use cases depend on it to turn races into Conflict; other failures
// are logged.
func (i *IndexInitializer) Initialize(ctx context.Context) error {
	indexes := Definitions()

	for _, idx := range indexes {
		model := mongo.IndexModel{Keys: idx.Keys, Options: idx.Options}
		if _, err := i.db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			if idx.Unique() {
				return fmt.Errorf("create unique index on %s: %w", idx.Collection, err)
			}
			i.logger.Warn("Failed to create index (may already exist)",
				"error", err,
				"collection", idx.Collection)
		}
	}

	i.logger.Info("Index initialization complete", "count", len(indexes))
	return nil
}

func unique() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

func keys(fields ...string) bson.D {
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	return d
}

// Definitions lists every index. Unique indexes mirror the constraints the
// in-memory store enforces.
func Definitions() []IndexDefinition {
	return []IndexDefinition{
		// catalog
		{Collection: "permissions", Keys: keys("name"), Options: unique()},
		{Collection: "team_permissions", Keys: keys("name"), Options: unique()},
		{Collection: "team_permissions", Keys: keys("kind")},

		// roles and grants
		{Collection: "roles", Keys: keys("name"), Options: unique()},
		{Collection: "role_permissions", Keys: keys("roleId", "permissionId"), Options: unique()},
		{Collection: "role_permissions", Keys: keys("permissionId")},
		{Collection: "team_roles", Keys: keys("name"), Options: unique()},
		{Collection: "team_role_permissions", Keys: keys("teamRoleId", "permissionId"), Options: unique()},
		{Collection: "team_role_permissions", Keys: keys("permissionId")},

		// entity graph
		{Collection: "views", Keys: keys("parentViewId")},
		{Collection: "teams", Keys: keys("viewId")},
		{Collection: "teams", Keys: keys("roleId")},
		{Collection: "team_permission_assignments", Keys: keys("teamId", "permissionId"), Options: unique()},
		{Collection: "team_permission_assignments", Keys: keys("permissionId")},
		{Collection: "users", Keys: keys("roleId")},
		{Collection: "user_permission_assignments", Keys: keys("userId", "permissionId"), Options: unique()},
		{Collection: "user_permission_assignments", Keys: keys("permissionId")},

		// memberships
		{Collection: "view_memberships", Keys: keys("viewId", "userId"), Options: unique()},
		{Collection: "view_memberships", Keys: keys("userId")},
		{Collection: "team_memberships", Keys: keys("teamId", "userId"), Options: unique()},
		{Collection: "team_memberships", Keys: keys("userId")},
		{Collection: "team_memberships", Keys: keys("viewMembershipId")},
		{Collection: "team_memberships", Keys: keys("roleId")},

		// applications
		{Collection: "applications", Keys: keys("viewId")},
		{Collection: "application_instances", Keys: keys("teamId", "applicationId"), Options: unique()},
		{Collection: "application_instances", Keys: keys("applicationId")},

		// events and audit
		{Collection: "events", Keys: keys("aggregateType", "time")},
		{Collection: "events", Keys: keys("correlationId")},
		{Collection: "audit_logs", Keys: keys("entityType", "entityId")},
		{Collection: "audit_logs", Keys: keys("principalId", "performedAt")},
	}
}
