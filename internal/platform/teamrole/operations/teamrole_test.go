package operations

import (
	"context"
	"testing"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
)

var execCtx = common.NewExecutionContext("tester")

func setup() (*memstore.Store, *common.MemoryUnitOfWork) {
	s := memstore.New()
	s.MustPut(
		&teamrole.TeamRole{ID: "member", Name: teamrole.DefaultTeamRoleName},
		&teamrole.TeamRole{ID: "creator", Name: teamrole.DefaultViewCreatorRoleName, AllPermissions: true},
		&teamrole.TeamRole{ID: "locked", Name: "Locked", Immutable: true},
		&teamrole.TeamRole{ID: "observer", Name: "Observer"},
		&teampermission.TeamPermission{ID: "tp1", Name: "ViewTeam", Kind: teampermission.KindTeam},
	)
	return s, common.NewMemoryUnitOfWork(s, nil)
}

func expectKind(t *testing.T, r common.Result[common.DomainEvent], kind common.ErrorKind, code string) {
	t.Helper()
	if r.IsSuccess() {
		t.Fatalf("expected %s failure, got success", kind)
	}
	if r.Error().Kind != kind || r.Error().Code != code {
		t.Fatalf("expected %s/%s, got %v", kind, code, r.Error())
	}
}

func strPtr(s string) *string { return &s }

// === Default role protection ===

func TestDefaultTeamRolesCannotBeDeleted(t *testing.T) {
	s, uow := setup()
	uc := NewDeleteTeamRoleUseCase(s.TeamRoles(), s.Teams(), s.Memberships(), teamrole.DefaultNames(), uow)

	for _, id := range []string{"member", "creator"} {
		t.Run(id, func(t *testing.T) {
			expectKind(t, uc.Execute(context.Background(), DeleteTeamRoleCommand{ID: id}, execCtx),
				common.ErrorKindConflict, common.ErrCodeDefaultRoleProtected)
		})
	}
	if n := s.Count(teamrole.CollectionName); n != 4 {
		t.Errorf("no team role should be deleted, have %d", n)
	}
}

func TestDefaultTeamRolesCannotBeRenamed(t *testing.T) {
	s, uow := setup()
	uc := NewUpdateTeamRoleUseCase(s.TeamRoles(), teamrole.DefaultNames(), uow)

	expectKind(t, uc.Execute(context.Background(), UpdateTeamRoleCommand{ID: "member", Name: strPtr("Crew")}, execCtx),
		common.ErrorKindConflict, common.ErrCodeDefaultRoleProtected)

	// Other properties of a default role stay editable.
	if r := uc.Execute(context.Background(), UpdateTeamRoleCommand{ID: "member", Name: strPtr(teamrole.DefaultTeamRoleName), Description: strPtr("Everyone")}, execCtx); r.IsFailure() {
		t.Fatalf("description update failed: %v", r.Error())
	}
}

func TestConfiguredDefaultsAreProtected(t *testing.T) {
	s, uow := setup()
	defaults := teamrole.Defaults{Team: "Observer", ViewCreator: "Locked"}
	uc := NewDeleteTeamRoleUseCase(s.TeamRoles(), s.Teams(), s.Memberships(), defaults, uow)

	expectKind(t, uc.Execute(context.Background(), DeleteTeamRoleCommand{ID: "observer"}, execCtx),
		common.ErrorKindConflict, common.ErrCodeDefaultRoleProtected)
	if r := uc.Execute(context.Background(), DeleteTeamRoleCommand{ID: "member"}, execCtx); r.IsFailure() {
		t.Errorf("Member is not a default under this configuration: %v", r.Error())
	}
}

// === Immutable and lifecycle ===

func TestImmutableTeamRole(t *testing.T) {
	s, uow := setup()
	update := NewUpdateTeamRoleUseCase(s.TeamRoles(), teamrole.DefaultNames(), uow)
	del := NewDeleteTeamRoleUseCase(s.TeamRoles(), s.Teams(), s.Memberships(), teamrole.DefaultNames(), uow)

	expectKind(t, update.Execute(context.Background(), UpdateTeamRoleCommand{ID: "locked", Description: strPtr("x")}, execCtx),
		common.ErrorKindForbidden, common.ErrCodeImmutable)
	expectKind(t, del.Execute(context.Background(), DeleteTeamRoleCommand{ID: "locked"}, execCtx),
		common.ErrorKindForbidden, common.ErrCodeImmutable)
}

func TestCreateTeamRoleNameConflict(t *testing.T) {
	s, uow := setup()
	uc := NewCreateTeamRoleUseCase(s.TeamRoles(), uow)

	expectKind(t, uc.Execute(context.Background(), CreateTeamRoleCommand{Name: "Observer"}, execCtx),
		common.ErrorKindConflict, common.ErrCodeNameExists)
	if r := uc.Execute(context.Background(), CreateTeamRoleCommand{Name: "Facilitator"}, execCtx); r.IsFailure() {
		t.Fatalf("create failed: %v", r.Error())
	}
}

func TestDeleteTeamRoleClearsReferences(t *testing.T) {
	s, uow := setup()
	s.MustPut(
		&teamrole.TeamRolePermission{ID: "g1", TeamRoleID: "observer", PermissionID: "tp1"},
		&team.Team{ID: "t1", ViewID: "v1", RoleID: "observer"},
		&membership.TeamMembership{ID: "tm1", TeamID: "t2", UserID: "u1", ViewMembershipID: "vm1", RoleID: "observer"},
	)
	uc := NewDeleteTeamRoleUseCase(s.TeamRoles(), s.Teams(), s.Memberships(), teamrole.DefaultNames(), uow)

	if r := uc.Execute(context.Background(), DeleteTeamRoleCommand{ID: "observer"}, execCtx); r.IsFailure() {
		t.Fatalf("delete failed: %v", r.Error())
	}
	if s.Count(teamrole.PermissionCollectionName) != 0 {
		t.Error("grants should be removed")
	}
	tm, _ := s.Teams().FindByID(context.Background(), "t1")
	if tm.RoleID != "" {
		t.Errorf("team role reference should be cleared, got %q", tm.RoleID)
	}
	m, _ := s.Memberships().FindTeamMembershipByID(context.Background(), "tm1")
	if m.RoleID != "" {
		t.Errorf("override should be cleared, got %q", m.RoleID)
	}
}

// === Grants ===

func TestTeamRoleGrants(t *testing.T) {
	s, uow := setup()
	add := NewAddPermissionToTeamRoleUseCase(s.TeamRoles(), s.TeamPermissions(), uow)
	remove := NewRemovePermissionFromTeamRoleUseCase(s.TeamRoles(), s.TeamPermissions(), uow)
	cmd := TeamRolePermissionCommand{TeamRoleID: "observer", PermissionID: "tp1"}

	if r := add.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("add failed: %v", r.Error())
	}
	expectKind(t, add.Execute(context.Background(), cmd, execCtx), common.ErrorKindConflict, common.ErrCodeGrantExists)
	if n := s.Count(teamrole.PermissionCollectionName); n != 1 {
		t.Errorf("expected one grant row, got %d", n)
	}

	expectKind(t, add.Execute(context.Background(), TeamRolePermissionCommand{TeamRoleID: "nope", PermissionID: "tp1"}, execCtx),
		common.ErrorKindNotFound, common.ErrCodeTeamRoleNotFound)
	expectKind(t, add.Execute(context.Background(), TeamRolePermissionCommand{TeamRoleID: "observer", PermissionID: "nope"}, execCtx),
		common.ErrorKindNotFound, common.ErrCodePermissionNotFound)

	if r := remove.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("remove failed: %v", r.Error())
	}
	expectKind(t, remove.Execute(context.Background(), cmd, execCtx), common.ErrorKindNotFound, common.ErrCodeGrantNotFound)
}
