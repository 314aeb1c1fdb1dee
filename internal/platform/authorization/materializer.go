package authorization

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"go.player.tech/internal/common/metrics"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
	"go.player.tech/internal/platform/view"
)

// Repositories is the read side of the entity graph.
type Repositories struct {
	Permissions     permission.Repository
	TeamPermissions teampermission.Repository
	Roles           role.Repository
	TeamRoles       teamrole.Repository
	Views           view.Repository
	Teams           team.Repository
	Users           user.Repository
	Memberships     membership.Repository
	Applications    application.Repository
}

// Resolver builds a Resolver over these repositories.
func (r Repositories) Resolver() *Resolver {
	return NewResolver(r.Views, r.Teams, r.Applications, r.Memberships)
}

// Materializer computes Claims from the entity graph.
type Materializer struct {
	repos  Repositories
	logger *slog.Logger
}

// NewMaterializer creates a new claims materializer.
func NewMaterializer(repos Repositories, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{repos: repos, logger: logger}
}

// graph holds everything one materialization reads.
type graph struct {
	user            *user.User
	permissions     map[string]*permission.Permission
	teamPermissions map[string]*teampermission.TeamPermission
	directGrants    []*user.PermissionAssignment
	teamMemberships []*membership.TeamMembership
	viewMemberships map[string]*membership.ViewMembership
}

// Materialize computes the claims of userID. An unknown user has no
// permissions. References to deleted entities contribute nothing.
func (m *Materializer) Materialize(ctx context.Context, userID string) (*Claims, error) {
	start := time.Now()
	ctx = repository.WithCallCounter(ctx)
	defer func() {
		elapsed := time.Since(start)
		metrics.ClaimsMaterializeDuration.Observe(elapsed.Seconds())
		m.logger.DebugContext(ctx, "Claims materialized",
			"userId", userID,
			"dbCalls", repository.Calls(ctx),
			"duration_ms", elapsed.Milliseconds())
	}()

	g, err := m.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	claims := &Claims{UserID: userID, MaterializedAt: time.Now().UTC()}
	if g.user == nil {
		return claims, nil
	}

	claims.SystemPermissions, err = m.systemPermissions(ctx, g)
	if err != nil {
		return nil, err
	}
	claims.Teams, err = m.teamClaims(ctx, g)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Materializer) load(ctx context.Context, userID string) (*graph, error) {
	var (
		g        = &graph{}
		perms    []*permission.Permission
		teamPerm []*teampermission.TeamPermission
		vms      []*membership.ViewMembership
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		u, err := m.repos.Users.FindByID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		g.user = u
		return err
	})
	eg.Go(func() (err error) {
		perms, err = m.repos.Permissions.FindAll(ctx)
		return err
	})
	eg.Go(func() (err error) {
		teamPerm, err = m.repos.TeamPermissions.FindAll(ctx)
		return err
	})
	eg.Go(func() (err error) {
		g.directGrants, err = m.repos.Users.FindPermissions(ctx, userID)
		return err
	})
	eg.Go(func() (err error) {
		g.teamMemberships, err = m.repos.Memberships.FindTeamMembershipsByUser(ctx, userID)
		return err
	})
	eg.Go(func() (err error) {
		vms, err = m.repos.Memberships.FindViewMembershipsByUser(ctx, userID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("load claims graph for %s: %w", userID, err)
	}

	g.permissions = make(map[string]*permission.Permission, len(perms))
	for _, p := range perms {
		g.permissions[p.ID] = p
	}
	g.teamPermissions = make(map[string]*teampermission.TeamPermission, len(teamPerm))
	for _, p := range teamPerm {
		g.teamPermissions[p.ID] = p
	}
	g.viewMemberships = make(map[string]*membership.ViewMembership, len(vms))
	for _, vm := range vms {
		g.viewMemberships[vm.ID] = vm
	}
	return g, nil
}

// systemPermissions unions the Role's permissions, the whole catalog for an
// AllPermissions role, with the user's direct grants.
func (m *Materializer) systemPermissions(ctx context.Context, g *graph) ([]string, error) {
	names := make(map[string]bool)

	if g.user.RoleID != "" {
		r, err := m.repos.Roles.FindByID(ctx, g.user.RoleID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			m.logger.DebugContext(ctx, "User references missing role", "userId", g.user.ID, "roleId", g.user.RoleID)
		case err != nil:
			return nil, fmt.Errorf("find role %s: %w", g.user.RoleID, err)
		case r.AllPermissions:
			for _, p := range g.permissions {
				names[p.Name] = true
			}
		default:
			grants, err := m.repos.Roles.FindPermissions(ctx, r.ID)
			if err != nil {
				return nil, fmt.Errorf("find role permissions %s: %w", r.ID, err)
			}
			for _, grant := range grants {
				if p, ok := g.permissions[grant.PermissionID]; ok {
					names[p.Name] = true
				}
			}
		}
	}

	for _, grant := range g.directGrants {
		if p, ok := g.permissions[grant.PermissionID]; ok {
			names[p.Name] = true
		}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out, nil
}

// teamClaims builds one claim per TeamMembership. The effective TeamRole is
// the membership override, else the Team's role.
func (m *Materializer) teamClaims(ctx context.Context, g *graph) ([]TeamClaim, error) {
	rolePermissions := make(map[string][]ScopedPermission)
	claims := make([]TeamClaim, 0, len(g.teamMemberships))

	for _, tm := range g.teamMemberships {
		t, err := m.repos.Teams.FindByID(ctx, tm.TeamID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find team %s: %w", tm.TeamID, err)
		}

		set := make(map[ScopedPermission]bool)

		roleID := tm.EffectiveRoleID(t.RoleID)
		if roleID != "" {
			perms, cached := rolePermissions[roleID]
			if !cached {
				perms, err = m.teamRolePermissions(ctx, g, roleID)
				if err != nil {
					return nil, err
				}
				rolePermissions[roleID] = perms
			}
			for _, p := range perms {
				set[p] = true
			}
		}

		assignments, err := m.repos.Teams.FindPermissions(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("find team permissions %s: %w", t.ID, err)
		}
		for _, a := range assignments {
			if p, ok := g.teamPermissions[a.PermissionID]; ok {
				set[scoped(p)] = true
			}
		}

		vm := g.viewMemberships[tm.ViewMembershipID]
		claims = append(claims, TeamClaim{
			ViewID:      t.ViewID,
			TeamID:      t.ID,
			IsPrimary:   vm != nil && vm.PrimaryTeamMembershipID == tm.ID,
			Permissions: sortedPermissions(set),
		})
	}
	return claims, nil
}

func (m *Materializer) teamRolePermissions(ctx context.Context, g *graph, roleID string) ([]ScopedPermission, error) {
	return expandTeamRole(ctx, m.repos.TeamRoles, g.teamPermissions, roleID)
}

func scoped(p *teampermission.TeamPermission) ScopedPermission {
	return ScopedPermission{Kind: p.Kind, Value: p.Name}
}

func sortedPermissions(set map[ScopedPermission]bool) []ScopedPermission {
	out := make([]ScopedPermission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b ScopedPermission) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Value, b.Value))
	})
	return out
}
