package role

import "time"

// Collection names
const (
	CollectionName           = "roles"
	PermissionCollectionName = "role_permissions"
)

// Role is a system-level bundle of permissions assigned to a User.
// AllPermissions grants every Permission in the catalog, regardless of the
// explicit RolePermission rows. Immutable roles cannot be edited or deleted.
type Role struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	AllPermissions bool      `bson:"allPermissions" json:"allPermissions"`
	Immutable      bool      `bson:"immutable" json:"immutable"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (r *Role) AggregateID() string    { return r.ID }
func (r *Role) CollectionName() string { return CollectionName }
func (r *Role) AggregateType() string  { return "role" }

// RolePermission grants one Permission to a Role.
// The (RoleID, PermissionID) pair is unique.
type RolePermission struct {
	ID           string    `bson:"_id" json:"id"`
	RoleID       string    `bson:"roleId" json:"roleId"`
	PermissionID string    `bson:"permissionId" json:"permissionId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

func (p *RolePermission) AggregateID() string    { return p.ID }
func (p *RolePermission) CollectionName() string { return PermissionCollectionName }
func (p *RolePermission) AggregateType() string  { return "rolepermission" }
