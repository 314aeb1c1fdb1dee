package membership

import "context"

// Repository defines read access to view and team memberships.
// Single-entity finders return repository.ErrNotFound.
type Repository interface {
	FindViewMembershipByID(ctx context.Context, id string) (*ViewMembership, error)
	FindViewMembership(ctx context.Context, viewID, userID string) (*ViewMembership, error)
	FindViewMembershipsByUser(ctx context.Context, userID string) ([]*ViewMembership, error)
	FindViewMembershipsByView(ctx context.Context, viewID string) ([]*ViewMembership, error)

	FindTeamMembershipByID(ctx context.Context, id string) (*TeamMembership, error)
	FindTeamMembership(ctx context.Context, teamID, userID string) (*TeamMembership, error)
	FindTeamMembershipsByUser(ctx context.Context, userID string) ([]*TeamMembership, error)
	FindTeamMembershipsByTeam(ctx context.Context, teamID string) ([]*TeamMembership, error)

	// FindTeamMembershipsByViewMembership returns the memberships oldest first.
	FindTeamMembershipsByViewMembership(ctx context.Context, viewMembershipID string) ([]*TeamMembership, error)

	// FindTeamMembershipsByRole returns the memberships overriding their
	// team's role with roleID.
	FindTeamMembershipsByRole(ctx context.Context, roleID string) ([]*TeamMembership, error)
}
