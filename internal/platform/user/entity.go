package user

import "time"

// Collection names
const (
	CollectionName           = "users"
	PermissionCollectionName = "user_permission_assignments"
)

// User is a principal. ID is the stable external identity (the token
// subject). RoleID optionally references the user's system Role.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	RoleID    string    `bson:"roleId,omitempty" json:"roleId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) AggregateID() string    { return u.ID }
func (u *User) CollectionName() string { return CollectionName }
func (u *User) AggregateType() string  { return "user" }

// PermissionAssignment grants a system Permission directly to a User,
// independent of Role.
type PermissionAssignment struct {
	ID           string    `bson:"_id" json:"id"`
	UserID       string    `bson:"userId" json:"userId"`
	PermissionID string    `bson:"permissionId" json:"permissionId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

func (a *PermissionAssignment) AggregateID() string    { return a.ID }
func (a *PermissionAssignment) CollectionName() string { return PermissionCollectionName }
func (a *PermissionAssignment) AggregateType() string  { return "userpermissionassignment" }
