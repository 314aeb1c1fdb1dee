package teampermission

import "time"

// CollectionName is the MongoDB collection holding team-scoped permissions.
const CollectionName = "team_permissions"

// Kind tells whether a TeamPermission applies to a single Team or to every
// Team sharing a View.
type Kind string

const (
	KindView Kind = "View"
	KindTeam Kind = "Team"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindView || k == KindTeam
}

// TeamPermission is a capability scoped to a Team or View context,
// e.g. ManageTeam or ViewView.
type TeamPermission struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Kind        Kind      `bson:"kind" json:"kind"`
	Immutable   bool      `bson:"immutable" json:"immutable"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p *TeamPermission) AggregateID() string    { return p.ID }
func (p *TeamPermission) CollectionName() string { return CollectionName }
func (p *TeamPermission) AggregateType() string  { return "teampermission" }
