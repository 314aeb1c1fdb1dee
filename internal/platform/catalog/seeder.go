// Package catalog seeds the built-in permission catalog and roles.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
)

// SeederPrincipal is the principal recorded on seeding events.
const SeederPrincipal = "system:seeder"

// Report counts what a Seed run created.
type Report struct {
	Permissions     int
	TeamPermissions int
	Roles           int
	TeamRoles       int
	Grants          int
}

// Empty reports whether nothing was created.
func (r Report) Empty() bool {
	return r == Report{}
}

// Seeder creates the missing parts of the built-in catalog. Existing
// entries are never modified, so operators keep their edits.
type Seeder struct {
	permissions     permission.Repository
	teamPermissions teampermission.Repository
	roles           role.Repository
	teamRoles       teamrole.Repository
	defaults        teamrole.Defaults
	unitOfWork      common.UnitOfWork
	logger          *slog.Logger
}

// NewSeeder creates a Seeder. The configured default team role names are
// created (without grants) when no built-in role carries them.
func NewSeeder(repos authorization.Repositories, defaults teamrole.Defaults, uow common.UnitOfWork, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		permissions:     repos.Permissions,
		teamPermissions: repos.TeamPermissions,
		roles:           repos.Roles,
		teamRoles:       repos.TeamRoles,
		defaults:        defaults,
		unitOfWork:      uow,
		logger:          logger,
	}
}

// Seed creates every missing entry in one commit.
func (s *Seeder) Seed(ctx context.Context) (Report, error) {
	s.logger.Info("Seeding permission catalog...")

	execCtx := common.NewExecutionContext(SeederPrincipal)
	now := time.Now()
	var (
		report  Report
		changes common.Changes
	)

	permIDs := make(map[string]string)
	for _, def := range authorization.SystemPermissions() {
		existing, err := s.permissions.FindByName(ctx, def.Name)
		if err == nil {
			permIDs[def.Name] = existing.ID
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return report, fmt.Errorf("find permission %s: %w", def.Name, err)
		}
		p := &permission.Permission{ID: ids.New(), Name: def.Name, Description: def.Description, Immutable: true, CreatedAt: now, UpdatedAt: now}
		changes.Save(p).Record(events.NewCreated(execCtx, p))
		permIDs[def.Name] = p.ID
		report.Permissions++
	}

	teamPermIDs := make(map[string]string)
	scoped := []struct {
		kind teampermission.Kind
		defs []authorization.Definition
	}{
		{teampermission.KindView, authorization.ViewPermissions()},
		{teampermission.KindTeam, authorization.TeamPermissions()},
	}
	for _, group := range scoped {
		for _, def := range group.defs {
			existing, err := s.teamPermissions.FindByName(ctx, def.Name)
			if err == nil {
				teamPermIDs[def.Name] = existing.ID
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return report, fmt.Errorf("find team permission %s: %w", def.Name, err)
			}
			p := &teampermission.TeamPermission{ID: ids.New(), Name: def.Name, Description: def.Description, Kind: group.kind, Immutable: true, CreatedAt: now, UpdatedAt: now}
			changes.Save(p).Record(events.NewCreated(execCtx, p))
			teamPermIDs[def.Name] = p.ID
			report.TeamPermissions++
		}
	}

	for _, def := range AllRoles() {
		_, err := s.roles.FindByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return report, fmt.Errorf("find role %s: %w", def.Name, err)
		}
		r := &role.Role{ID: ids.New(), Name: def.Name, Description: def.Description, AllPermissions: def.AllPermissions, Immutable: def.Immutable, CreatedAt: now, UpdatedAt: now}
		changes.Save(r).Record(events.NewCreated(execCtx, r))
		report.Roles++
		for _, name := range def.Permissions {
			g := &role.RolePermission{ID: ids.New(), RoleID: r.ID, PermissionID: permIDs[name], CreatedAt: now}
			changes.Save(g).Record(events.NewCreated(execCtx, g))
			report.Grants++
		}
	}

	teamRoleDefs := AllTeamRoles()
	for _, name := range []string{s.defaults.Team, s.defaults.ViewCreator} {
		if name != "" && !hasRole(teamRoleDefs, name) {
			teamRoleDefs = append(teamRoleDefs, RoleDefinition{Name: name, Description: "Default team role"})
		}
	}
	for _, def := range teamRoleDefs {
		_, err := s.teamRoles.FindByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return report, fmt.Errorf("find team role %s: %w", def.Name, err)
		}
		r := &teamrole.TeamRole{ID: ids.New(), Name: def.Name, Description: def.Description, AllPermissions: def.AllPermissions, Immutable: def.Immutable, CreatedAt: now, UpdatedAt: now}
		changes.Save(r).Record(events.NewCreated(execCtx, r))
		report.TeamRoles++
		for _, name := range def.Permissions {
			g := &teamrole.TeamRolePermission{ID: ids.New(), TeamRoleID: r.ID, PermissionID: teamPermIDs[name], CreatedAt: now}
			changes.Save(g).Record(events.NewCreated(execCtx, g))
			report.Grants++
		}
	}

	if report.Empty() {
		s.logger.Info("Permission catalog up to date")
		return report, nil
	}
	if err := s.unitOfWork.CommitChanges(ctx, changes, report).Err(); err != nil {
		return Report{}, fmt.Errorf("commit catalog: %w", err)
	}

	s.logger.Info("Permission catalog seeded",
		"permissions", report.Permissions,
		"teamPermissions", report.TeamPermissions,
		"roles", report.Roles,
		"teamRoles", report.TeamRoles,
		"grants", report.Grants,
	)
	return report, nil
}

func hasRole(defs []RoleDefinition, name string) bool {
	for _, d := range defs {
		if d.Name == name {
			return true
		}
	}
	return false
}
