package operations

import (
	"context"
	"testing"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/view"
)

var execCtx = common.NewExecutionContext("tester")

func setup() (*memstore.Store, *common.MemoryUnitOfWork) {
	s := memstore.New()
	s.MustPut(
		&view.View{ID: "v1", Name: "Exercise", Status: view.StatusActive},
		&teamrole.TeamRole{ID: "member", Name: teamrole.DefaultTeamRoleName},
		&teamrole.TeamRole{ID: "observer", Name: "Observer"},
		&teampermission.TeamPermission{ID: "tp1", Name: "ManageTeam", Kind: teampermission.KindTeam},
		&team.Team{ID: "t1", Name: "Blue", ViewID: "v1", RoleID: "member"},
	)
	return s, common.NewMemoryUnitOfWork(s, nil)
}

// === CreateTeam ===

func TestCreateTeam(t *testing.T) {
	tests := []struct {
		name     string
		cmd      CreateTeamCommand
		wantRole string
		wantErr  string
	}{
		{"default role", CreateTeamCommand{ViewID: "v1", Name: "Red"}, "member", ""},
		{"explicit role", CreateTeamCommand{ViewID: "v1", Name: "Red", RoleID: "observer"}, "observer", ""},
		{"missing view", CreateTeamCommand{ViewID: "nope", Name: "Red"}, "", common.ErrCodeViewNotFound},
		{"missing role", CreateTeamCommand{ViewID: "v1", Name: "Red", RoleID: "nope"}, "", common.ErrCodeTeamRoleNotFound},
		{"blank name", CreateTeamCommand{ViewID: "v1", Name: " "}, "", common.ErrCodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, uow := setup()
			uc := NewCreateTeamUseCase(s.Views(), s.TeamRoles(), teamrole.DefaultNames(), uow)
			r := uc.Execute(context.Background(), tt.cmd, execCtx)

			if tt.wantErr != "" {
				if r.IsSuccess() || r.Error().Code != tt.wantErr {
					t.Fatalf("expected %s, got %v", tt.wantErr, r.Error())
				}
				return
			}
			if r.IsFailure() {
				t.Fatalf("create failed: %v", r.Error())
			}
			teams, _ := s.Teams().FindByView(context.Background(), "v1")
			if len(teams) != 2 || teams[1].RoleID != tt.wantRole {
				t.Errorf("expected new team with role %q, got %+v", tt.wantRole, teams)
			}
		})
	}
}

func TestCreateTeamWithoutDefaultRole(t *testing.T) {
	s, uow := setup()
	uc := NewCreateTeamUseCase(s.Views(), s.TeamRoles(), teamrole.Defaults{Team: "Missing"}, uow)

	if r := uc.Execute(context.Background(), CreateTeamCommand{ViewID: "v1", Name: "Red"}, execCtx); r.IsFailure() {
		t.Fatalf("create failed: %v", r.Error())
	}
	teams, _ := s.Teams().FindByView(context.Background(), "v1")
	if teams[1].RoleID != "" {
		t.Errorf("expected no role, got %q", teams[1].RoleID)
	}
}

// === UpdateTeam ===

func TestUpdateTeamRole(t *testing.T) {
	s, uow := setup()
	uc := NewUpdateTeamUseCase(s.Teams(), s.TeamRoles(), uow)
	observer := "observer"
	missing := "nope"

	r := uc.Execute(context.Background(), UpdateTeamCommand{ID: "t1", RoleID: &observer}, execCtx)
	if r.IsFailure() {
		t.Fatalf("update failed: %v", r.Error())
	}
	type changed interface{ HasChanged(...string) bool }
	if ev, ok := r.Value().(changed); !ok || !ev.HasChanged("RoleID") {
		t.Error("expected RoleID in changed properties")
	}

	r = uc.Execute(context.Background(), UpdateTeamCommand{ID: "t1", RoleID: &missing}, execCtx)
	if r.IsSuccess() || r.Error().Code != common.ErrCodeTeamRoleNotFound {
		t.Errorf("expected TEAM_ROLE_NOT_FOUND, got %v", r.Error())
	}
	r = uc.Execute(context.Background(), UpdateTeamCommand{ID: "nope"}, execCtx)
	if r.IsSuccess() || r.Error().Kind != common.ErrorKindNotFound {
		t.Errorf("expected not found, got %v", r.Error())
	}
}

// === DeleteTeam ===

func TestDeleteTeamCascades(t *testing.T) {
	s, uow := setup()
	s.MustPut(
		&team.Team{ID: "t2", Name: "Green", ViewID: "v1"},
		&team.PermissionAssignment{ID: "pa1", TeamID: "t1", PermissionID: "tp1"},
		&application.Application{ID: "a1", ViewID: "v1", Name: "Mail"},
		&application.Instance{ID: "i1", TeamID: "t1", ApplicationID: "a1"},
		// u1 only in t1: view membership goes away.
		&membership.ViewMembership{ID: "vm1", ViewID: "v1", UserID: "u1", PrimaryTeamMembershipID: "tm1"},
		&membership.TeamMembership{ID: "tm1", TeamID: "t1", UserID: "u1", ViewMembershipID: "vm1"},
		// u2 in t1 (primary) and t2: primary moves to t2.
		&membership.ViewMembership{ID: "vm2", ViewID: "v1", UserID: "u2", PrimaryTeamMembershipID: "tm2"},
		&membership.TeamMembership{ID: "tm2", TeamID: "t1", UserID: "u2", ViewMembershipID: "vm2"},
		&membership.TeamMembership{ID: "tm3", TeamID: "t2", UserID: "u2", ViewMembershipID: "vm2"},
	)
	uc := NewDeleteTeamUseCase(s.Teams(), s.Memberships(), s.Applications(), uow)

	if r := uc.Execute(context.Background(), DeleteTeamCommand{ID: "t1"}, execCtx); r.IsFailure() {
		t.Fatalf("delete failed: %v", r.Error())
	}

	ctx := context.Background()
	if _, err := s.Memberships().FindViewMembershipByID(ctx, "vm1"); err == nil {
		t.Error("vm1 should be removed with the last team membership")
	}
	vm2, err := s.Memberships().FindViewMembershipByID(ctx, "vm2")
	if err != nil || vm2.PrimaryTeamMembershipID != "tm3" {
		t.Errorf("vm2 primary should move to tm3, got %+v (%v)", vm2, err)
	}
	if n := s.Count(team.PermissionCollectionName); n != 0 {
		t.Errorf("assignments should be removed, %d left", n)
	}
	if n := s.Count(application.InstanceCollectionName); n != 0 {
		t.Errorf("instances should be removed, %d left", n)
	}
	if n := s.Count(membership.TeamCollectionName); n != 1 {
		t.Errorf("only tm3 should remain, have %d", n)
	}
}

// === Team permission grants ===

func TestTeamPermissionGrants(t *testing.T) {
	s, uow := setup()
	add := NewAddTeamPermissionUseCase(s.Teams(), s.TeamPermissions(), uow)
	remove := NewRemoveTeamPermissionUseCase(s.Teams(), s.TeamPermissions(), uow)
	cmd := TeamPermissionCommand{TeamID: "t1", PermissionID: "tp1"}

	if r := add.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("add failed: %v", r.Error())
	}

	tests := []struct {
		name string
		run  func() common.Result[common.DomainEvent]
		kind common.ErrorKind
		code string
	}{
		{"duplicate", func() common.Result[common.DomainEvent] { return add.Execute(context.Background(), cmd, execCtx) },
			common.ErrorKindConflict, common.ErrCodeGrantExists},
		{"missing team", func() common.Result[common.DomainEvent] {
			return add.Execute(context.Background(), TeamPermissionCommand{TeamID: "nope", PermissionID: "tp1"}, execCtx)
		}, common.ErrorKindNotFound, common.ErrCodeTeamNotFound},
		{"missing permission", func() common.Result[common.DomainEvent] {
			return remove.Execute(context.Background(), TeamPermissionCommand{TeamID: "t1", PermissionID: "nope"}, execCtx)
		}, common.ErrorKindNotFound, common.ErrCodePermissionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.run()
			if r.IsSuccess() || r.Error().Kind != tt.kind || r.Error().Code != tt.code {
				t.Errorf("expected %s/%s, got %v", tt.kind, tt.code, r.Error())
			}
		})
	}
	if n := s.Count(team.PermissionCollectionName); n != 1 {
		t.Errorf("expected one assignment, got %d", n)
	}

	if r := remove.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("remove failed: %v", r.Error())
	}
	if r := remove.Execute(context.Background(), cmd, execCtx); r.IsSuccess() || r.Error().Code != common.ErrCodeGrantNotFound {
		t.Errorf("expected GRANT_NOT_FOUND, got %v", r.Error())
	}
}
