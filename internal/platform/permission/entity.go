package permission

import "time"

// CollectionName is the MongoDB collection holding system permissions.
const CollectionName = "permissions"

// Permission is a system-wide capability, e.g. ManageUsers.
// Immutable permissions cannot be edited or deleted.
type Permission struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Immutable   bool      `bson:"immutable" json:"immutable"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p *Permission) AggregateID() string    { return p.ID }
func (p *Permission) CollectionName() string { return CollectionName }
func (p *Permission) AggregateType() string  { return "permission" }
