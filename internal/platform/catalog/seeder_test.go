package catalog

import (
	"context"
	"testing"

	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
)

func newSeeder(s *memstore.Store, defaults teamrole.Defaults) (*Seeder, *common.MemoryUnitOfWork) {
	uow := common.NewMemoryUnitOfWork(s, nil)
	repos := authorization.Repositories{
		Permissions:     s.Permissions(),
		TeamPermissions: s.TeamPermissions(),
		Roles:           s.Roles(),
		TeamRoles:       s.TeamRoles(),
	}
	return NewSeeder(repos, defaults, uow, nil), uow
}

func TestSeedCreatesCatalog(t *testing.T) {
	s := memstore.New()
	seeder, _ := newSeeder(s, teamrole.DefaultNames())

	report, err := seeder.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if got, want := s.Count(permission.CollectionName), len(authorization.SystemPermissions()); got != want {
		t.Errorf("permissions = %d, want %d", got, want)
	}
	wantScoped := len(authorization.ViewPermissions()) + len(authorization.TeamPermissions())
	if got := s.Count(teampermission.CollectionName); got != wantScoped {
		t.Errorf("team permissions = %d, want %d", got, wantScoped)
	}
	if report.Roles != 3 || report.TeamRoles != 3 {
		t.Errorf("unexpected report %+v", report)
	}

	admin, err := s.Roles().FindByName(context.Background(), AdministratorRoleName)
	if err != nil || !admin.AllPermissions || !admin.Immutable {
		t.Errorf("Administrator should be AllPermissions and Immutable: %+v (%v)", admin, err)
	}
	viewer, _ := s.Roles().FindByName(context.Background(), ViewerRoleName)
	grants, _ := s.Roles().FindPermissions(context.Background(), viewer.ID)
	if len(grants) != len(ViewerRole.Permissions) {
		t.Errorf("Viewer grants = %d, want %d", len(grants), len(ViewerRole.Permissions))
	}

	for _, name := range []string{teamrole.DefaultTeamRoleName, teamrole.DefaultViewCreatorRoleName} {
		if _, err := s.TeamRoles().FindByName(context.Background(), name); err != nil {
			t.Errorf("default team role %q missing: %v", name, err)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	s := memstore.New()
	seeder, uow := newSeeder(s, teamrole.DefaultNames())

	if _, err := seeder.Seed(context.Background()); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	events := len(uow.Events())

	report, err := seeder.Seed(context.Background())
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if !report.Empty() {
		t.Errorf("second run should create nothing, got %+v", report)
	}
	if len(uow.Events()) != events {
		t.Error("second run should not commit")
	}
}

func TestSeedKeepsOperatorEdits(t *testing.T) {
	s := memstore.New()
	s.MustPut(&role.Role{ID: "mine", Name: ViewerRoleName, Description: "custom"})
	seeder, _ := newSeeder(s, teamrole.DefaultNames())

	if _, err := seeder.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	viewer, _ := s.Roles().FindByName(context.Background(), ViewerRoleName)
	if viewer.ID != "mine" || viewer.Description != "custom" {
		t.Errorf("existing role was replaced: %+v", viewer)
	}
	if grants, _ := s.Roles().FindPermissions(context.Background(), "mine"); len(grants) != 0 {
		t.Error("grants are only seeded for newly created roles")
	}
}

func TestSeedCreatesConfiguredDefaults(t *testing.T) {
	s := memstore.New()
	seeder, _ := newSeeder(s, teamrole.Defaults{Team: "Crew", ViewCreator: teamrole.DefaultViewCreatorRoleName})

	if _, err := seeder.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if _, err := s.TeamRoles().FindByName(context.Background(), "Crew"); err != nil {
		t.Errorf("configured default team role missing: %v", err)
	}
}
