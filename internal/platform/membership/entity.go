package membership

import "time"

// Collection names
const (
	ViewCollectionName = "view_memberships"
	TeamCollectionName = "team_memberships"
)

// ViewMembership enrolls a User in a View. PrimaryTeamMembershipID, when
// set, references one of the ViewMembership's own TeamMemberships and picks
// the user's default team context in that View.
type ViewMembership struct {
	ID                      string    `bson:"_id" json:"id"`
	ViewID                  string    `bson:"viewId" json:"viewId"`
	UserID                  string    `bson:"userId" json:"userId"`
	PrimaryTeamMembershipID string    `bson:"primaryTeamMembershipId,omitempty" json:"primaryTeamMembershipId,omitempty"`
	CreatedAt               time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (m *ViewMembership) AggregateID() string    { return m.ID }
func (m *ViewMembership) CollectionName() string { return ViewCollectionName }
func (m *ViewMembership) AggregateType() string  { return "viewmembership" }

// TeamMembership enrolls a User in one Team. ViewMembershipID references
// the same user's ViewMembership for the Team's View. RoleID, when set,
// overrides the Team's TeamRole for this member only.
type TeamMembership struct {
	ID               string    `bson:"_id" json:"id"`
	TeamID           string    `bson:"teamId" json:"teamId"`
	UserID           string    `bson:"userId" json:"userId"`
	ViewMembershipID string    `bson:"viewMembershipId" json:"viewMembershipId"`
	RoleID           string    `bson:"roleId,omitempty" json:"roleId,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (m *TeamMembership) AggregateID() string    { return m.ID }
func (m *TeamMembership) CollectionName() string { return TeamCollectionName }
func (m *TeamMembership) AggregateType() string  { return "teammembership" }

// EffectiveRoleID returns the TeamRole that applies to this member: the
// override when present, else the team's role.
func (m *TeamMembership) EffectiveRoleID(teamRoleID string) string {
	if m.RoleID != "" {
		return m.RoleID
	}
	return teamRoleID
}
