package view

import "time"

// CollectionName is the MongoDB collection holding views.
const CollectionName = "views"

// Status of a View
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// View is the top-level scoping unit: one exercise instance with its Teams,
// Applications and memberships. A cloned View points at its source through
// ParentViewID.
type View struct {
	ID           string    `bson:"_id" json:"id"`
	ParentViewID string    `bson:"parentViewId,omitempty" json:"parentViewId,omitempty"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Status       Status    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (v *View) AggregateID() string    { return v.ID }
func (v *View) CollectionName() string { return CollectionName }
func (v *View) AggregateType() string  { return "view" }
