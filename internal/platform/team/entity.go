package team

import "time"

// Collection names
const (
	CollectionName           = "teams"
	PermissionCollectionName = "team_permission_assignments"
)

// Team is a group of users within exactly one View. RoleID references the
// TeamRole that supplies the members' default team permissions.
type Team struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	ViewID    string    `bson:"viewId" json:"viewId"`
	RoleID    string    `bson:"roleId,omitempty" json:"roleId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (t *Team) AggregateID() string    { return t.ID }
func (t *Team) CollectionName() string { return CollectionName }
func (t *Team) AggregateType() string  { return "team" }

// PermissionAssignment grants a TeamPermission directly to a Team,
// independent of its TeamRole. The (TeamID, PermissionID) pair is unique.
type PermissionAssignment struct {
	ID           string    `bson:"_id" json:"id"`
	TeamID       string    `bson:"teamId" json:"teamId"`
	PermissionID string    `bson:"permissionId" json:"permissionId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

func (a *PermissionAssignment) AggregateID() string    { return a.ID }
func (a *PermissionAssignment) CollectionName() string { return PermissionCollectionName }
func (a *PermissionAssignment) AggregateType() string  { return "teampermissionassignment" }
