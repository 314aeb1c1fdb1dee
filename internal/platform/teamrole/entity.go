package teamrole

import "time"

// Collection names
const (
	CollectionName           = "team_roles"
	PermissionCollectionName = "team_role_permissions"
)

// TeamRole bundles TeamPermissions. It is assigned to a Team and may be
// overridden per TeamMembership. AllPermissions grants every TeamPermission
// in the catalog and the explicit rows are then ignored.
type TeamRole struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	AllPermissions bool      `bson:"allPermissions" json:"allPermissions"`
	Immutable      bool      `bson:"immutable" json:"immutable"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (r *TeamRole) AggregateID() string    { return r.ID }
func (r *TeamRole) CollectionName() string { return CollectionName }
func (r *TeamRole) AggregateType() string  { return "teamrole" }

// TeamRolePermission grants one TeamPermission to a TeamRole.
type TeamRolePermission struct {
	ID           string    `bson:"_id" json:"id"`
	TeamRoleID   string    `bson:"teamRoleId" json:"teamRoleId"`
	PermissionID string    `bson:"permissionId" json:"permissionId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

func (p *TeamRolePermission) AggregateID() string    { return p.ID }
func (p *TeamRolePermission) CollectionName() string { return PermissionCollectionName }
func (p *TeamRolePermission) AggregateType() string  { return "teamrolepermission" }
