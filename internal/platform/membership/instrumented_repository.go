package membership

import (
	"context"

	"go.player.tech/internal/common/repository"
)

// instrumentedRepository wraps a Repository with metrics and logging
type instrumentedRepository struct {
	inner Repository
}

func newInstrumentedRepository(inner Repository) Repository {
	return &instrumentedRepository{inner: inner}
}

func (r *instrumentedRepository) FindViewMembershipByID(ctx context.Context, id string) (*ViewMembership, error) {
	return repository.Instrument(ctx, ViewCollectionName, "FindViewMembershipByID", func() (*ViewMembership, error) {
		return r.inner.FindViewMembershipByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindViewMembership(ctx context.Context, viewID, userID string) (*ViewMembership, error) {
	return repository.Instrument(ctx, ViewCollectionName, "FindViewMembership", func() (*ViewMembership, error) {
		return r.inner.FindViewMembership(ctx, viewID, userID)
	})
}

func (r *instrumentedRepository) FindViewMembershipsByUser(ctx context.Context, userID string) ([]*ViewMembership, error) {
	return repository.Instrument(ctx, ViewCollectionName, "FindViewMembershipsByUser", func() ([]*ViewMembership, error) {
		return r.inner.FindViewMembershipsByUser(ctx, userID)
	})
}

func (r *instrumentedRepository) FindViewMembershipsByView(ctx context.Context, viewID string) ([]*ViewMembership, error) {
	return repository.Instrument(ctx, ViewCollectionName, "FindViewMembershipsByView", func() ([]*ViewMembership, error) {
		return r.inner.FindViewMembershipsByView(ctx, viewID)
	})
}

func (r *instrumentedRepository) FindTeamMembershipByID(ctx context.Context, id string) (*TeamMembership, error) {
	return repository.Instrument(ctx, TeamCollectionName, "FindTeamMembershipByID", func() (*TeamMembership, error) {
		return r.inner.FindTeamMembershipByID(ctx, id)
	})
}

func (r *instrumentedRepository) FindTeamMembership(ctx context.Context, teamID, userID string) (*TeamMembership, error) {
	return repository.Instrument(ctx, TeamCollectionName, "FindTeamMembership", func() (*TeamMembership, error) {
		return r.inner.FindTeamMembership(ctx, teamID, userID)
	})
}

func (r *instrumentedRepository) FindTeamMembershipsByUser(ctx context.Context, userID string) ([]*TeamMembership, error) {
	return repository.Instrument(ctx, TeamCollectionName, "FindTeamMembershipsByUser", func() ([]*TeamMembership, error) {
		return r.inner.FindTeamMembershipsByUser(ctx, userID)
	})
}

func (r *instrumentedRepository) FindTeamMembershipsByTeam(ctx context.Context, teamID string) ([]*TeamMembership, error) {
	return repository.Instrument(ctx, TeamCollectionName, "FindTeamMembershipsByTeam", func() ([]*TeamMembership, error) {
		return r.inner.FindTeamMembershipsByTeam(ctx, teamID)
	})
}

func (r *instrumentedRepository) FindTeamMembershipsByViewMembership(ctx context.Context, viewMembershipID string) ([]*TeamMembership, error) {
	return repository.Instrument(ctx, TeamCollectionName, "FindTeamMembershipsByViewMembership", func() ([]*TeamMembership, error) {
		return r.inner.FindTeamMembershipsByViewMembership(ctx, viewMembershipID)
	})
}

func (r *instrumentedRepository) FindTeamMembershipsByRole(ctx context.Context, roleID string) ([]*TeamMembership, error) {
	return repository.Instrument(ctx, TeamCollectionName, "FindTeamMembershipsByRole", func() ([]*TeamMembership, error) {
		return r.inner.FindTeamMembershipsByRole(ctx, roleID)
	})
}
