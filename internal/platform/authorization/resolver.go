package authorization

import (
	"context"
	"errors"
	"fmt"

	"go.player.tech/internal/common/metrics"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/view"
)

// ResourceKind names an entity type that can scope an authorization check.
type ResourceKind string

const (
	ResourceView                ResourceKind = "View"
	ResourceTeam                ResourceKind = "Team"
	ResourceApplication         ResourceKind = "Application"
	ResourceApplicationInstance ResourceKind = "ApplicationInstance"
	ResourceTeamMembership      ResourceKind = "TeamMembership"
	ResourceViewMembership      ResourceKind = "ViewMembership"
)

// ErrUnknownResourceKind is the panic value (wrapped) for a ResourceRef whose
// kind has no resolver. It indicates a programming error.
var ErrUnknownResourceKind = errors.New("unknown resource kind")

// ResourceRef points at the resource an authorization check is scoped to.
type ResourceRef struct {
	Kind ResourceKind `json:"kind"`
	ID   string       `json:"id"`
}

// Ref is shorthand for a ResourceRef pointer.
func Ref(kind ResourceKind, id string) *ResourceRef {
	return &ResourceRef{Kind: kind, ID: id}
}

// Scope is the View, and where applicable the Team, that owns a resource.
type Scope struct {
	ViewID string `json:"viewId"`
	TeamID string `json:"teamId,omitempty"`
}

type resolveFunc func(ctx context.Context, id string) (Scope, error)

// Resolver maps a ResourceRef to its owning Scope by walking the entity
// graph. Dispatch is a table keyed by ResourceKind.
type Resolver struct {
	resolvers map[ResourceKind]resolveFunc
}

// NewResolver wires the resolve table over the given repositories.
func NewResolver(views view.Repository, teams team.Repository, apps application.Repository, memberships membership.Repository) *Resolver {
	teamScope := func(ctx context.Context, teamID string) (Scope, error) {
		t, err := teams.FindByID(ctx, teamID)
		if err != nil {
			return Scope{}, err
		}
		return Scope{ViewID: t.ViewID, TeamID: t.ID}, nil
	}

	return &Resolver{resolvers: map[ResourceKind]resolveFunc{
		ResourceView: func(ctx context.Context, id string) (Scope, error) {
			v, err := views.FindByID(ctx, id)
			if err != nil {
				return Scope{}, err
			}
			return Scope{ViewID: v.ID}, nil
		},
		ResourceTeam: teamScope,
		ResourceApplication: func(ctx context.Context, id string) (Scope, error) {
			a, err := apps.FindByID(ctx, id)
			if err != nil {
				return Scope{}, err
			}
			return Scope{ViewID: a.ViewID}, nil
		},
		ResourceApplicationInstance: func(ctx context.Context, id string) (Scope, error) {
			i, err := apps.FindInstanceByID(ctx, id)
			if err != nil {
				return Scope{}, err
			}
			return teamScope(ctx, i.TeamID)
		},
		ResourceTeamMembership: func(ctx context.Context, id string) (Scope, error) {
			m, err := memberships.FindTeamMembershipByID(ctx, id)
			if err != nil {
				return Scope{}, err
			}
			return teamScope(ctx, m.TeamID)
		},
		ResourceViewMembership: func(ctx context.Context, id string) (Scope, error) {
			m, err := memberships.FindViewMembershipByID(ctx, id)
			if err != nil {
				return Scope{}, err
			}
			return Scope{ViewID: m.ViewID}, nil
		},
	}}
}

// Resolve returns the scope owning ref. ok is false when the resource, or
// an entity on the path to its View, does not exist. It panics for a kind
// without a resolver.
func (r *Resolver) Resolve(ctx context.Context, ref ResourceRef) (scope Scope, ok bool, err error) {
	resolve, known := r.resolvers[ref.Kind]
	if !known {
		panic(fmt.Errorf("%w: %q", ErrUnknownResourceKind, ref.Kind))
	}

	scope, err = resolve(ctx, ref.ID)
	switch {
	case err == nil:
		metrics.ResourceResolutions.WithLabelValues(string(ref.Kind), "found").Inc()
		return scope, true, nil
	case errors.Is(err, repository.ErrNotFound):
		metrics.ResourceResolutions.WithLabelValues(string(ref.Kind), "not_found").Inc()
		return Scope{}, false, nil
	default:
		metrics.ResourceResolutions.WithLabelValues(string(ref.Kind), "error").Inc()
		return Scope{}, false, fmt.Errorf("resolve %s %s: %w", ref.Kind, ref.ID, err)
	}
}

// Kinds returns the resource kinds this resolver handles.
func (r *Resolver) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(r.resolvers))
	for k := range r.resolvers {
		kinds = append(kinds, k)
	}
	return kinds
}
