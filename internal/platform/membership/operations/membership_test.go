package operations

import (
	"context"
	"testing"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
	"go.player.tech/internal/platform/view"
)

var execCtx = common.NewExecutionContext("tester")

func setup() (*memstore.Store, *common.MemoryUnitOfWork) {
	s := memstore.New()
	s.MustPut(
		&view.View{ID: "v1", Name: "Exercise", Status: view.StatusActive},
		&team.Team{ID: "t1", Name: "Blue", ViewID: "v1"},
		&team.Team{ID: "t2", Name: "Red", ViewID: "v1"},
		&teamrole.TeamRole{ID: "observer", Name: "Observer"},
		&user.User{ID: "u1", Name: "Alice"},
	)
	return s, common.NewMemoryUnitOfWork(s, nil)
}

func addUseCase(s *memstore.Store, uow common.UnitOfWork) *AddUserToTeamUseCase {
	return NewAddUserToTeamUseCase(s.Memberships(), s.Teams(), s.Users(), s.TeamRoles(), uow)
}

func mustAdd(t *testing.T, s *memstore.Store, uow common.UnitOfWork, teamID string) *membership.TeamMembership {
	t.Helper()
	r := addUseCase(s, uow).Execute(context.Background(), AddUserToTeamCommand{TeamID: teamID, UserID: "u1"}, execCtx)
	if r.IsFailure() {
		t.Fatalf("add to %s failed: %v", teamID, r.Error())
	}
	tm, err := s.Memberships().FindTeamMembership(context.Background(), teamID, "u1")
	if err != nil {
		t.Fatalf("membership not stored: %v", err)
	}
	return tm
}

func viewMembership(t *testing.T, s *memstore.Store) *membership.ViewMembership {
	t.Helper()
	vm, err := s.Memberships().FindViewMembership(context.Background(), "v1", "u1")
	if err != nil {
		t.Fatalf("view membership: %v", err)
	}
	return vm
}

// === AddUserToTeam ===

func TestAddUserToTeamCreatesPrimaryViewMembership(t *testing.T) {
	s, uow := setup()
	tm := mustAdd(t, s, uow, "t1")

	vm := viewMembership(t, s)
	if vm.PrimaryTeamMembershipID != tm.ID {
		t.Errorf("primary = %q, want %q", vm.PrimaryTeamMembershipID, tm.ID)
	}
	if tm.ViewMembershipID != vm.ID {
		t.Errorf("team membership should reference its view membership")
	}

	// A second team in the same view reuses the view membership and keeps the primary.
	tm2 := mustAdd(t, s, uow, "t2")
	if tm2.ViewMembershipID != vm.ID {
		t.Error("second membership should share the view membership")
	}
	if got := viewMembership(t, s).PrimaryTeamMembershipID; got != tm.ID {
		t.Errorf("primary should stay %q, got %q", tm.ID, got)
	}
	if n := s.Count(membership.ViewCollectionName); n != 1 {
		t.Errorf("expected one view membership, got %d", n)
	}
}

func TestAddUserToTeamFailures(t *testing.T) {
	s, uow := setup()
	mustAdd(t, s, uow, "t1")
	uc := addUseCase(s, uow)

	tests := []struct {
		name string
		cmd  AddUserToTeamCommand
		kind common.ErrorKind
		code string
	}{
		{"already member", AddUserToTeamCommand{TeamID: "t1", UserID: "u1"}, common.ErrorKindConflict, common.ErrCodeMembershipExists},
		{"missing team", AddUserToTeamCommand{TeamID: "nope", UserID: "u1"}, common.ErrorKindNotFound, common.ErrCodeTeamNotFound},
		{"missing user", AddUserToTeamCommand{TeamID: "t2", UserID: "ghost"}, common.ErrorKindNotFound, common.ErrCodeUserNotFound},
		{"missing role", AddUserToTeamCommand{TeamID: "t2", UserID: "u1", RoleID: "nope"}, common.ErrorKindNotFound, common.ErrCodeTeamRoleNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := uc.Execute(context.Background(), tt.cmd, execCtx)
			if r.IsSuccess() || r.Error().Kind != tt.kind || r.Error().Code != tt.code {
				t.Errorf("expected %s/%s, got %v", tt.kind, tt.code, r.Error())
			}
		})
	}
}

// === RemoveUserFromTeam ===

func TestRemoveUserFromTeam(t *testing.T) {
	s, uow := setup()
	tm1 := mustAdd(t, s, uow, "t1")
	tm2 := mustAdd(t, s, uow, "t2")
	uc := NewRemoveUserFromTeamUseCase(s.Memberships(), uow)

	// Removing the primary re-points it.
	if r := uc.Execute(context.Background(), RemoveUserFromTeamCommand{TeamID: "t1", UserID: "u1"}, execCtx); r.IsFailure() {
		t.Fatalf("remove failed: %v", r.Error())
	}
	if got := viewMembership(t, s).PrimaryTeamMembershipID; got != tm2.ID {
		t.Errorf("primary should move from %s to %s, got %s", tm1.ID, tm2.ID, got)
	}

	// Removing the last one drops the view membership.
	if r := uc.Execute(context.Background(), RemoveUserFromTeamCommand{TeamID: "t2", UserID: "u1"}, execCtx); r.IsFailure() {
		t.Fatalf("remove failed: %v", r.Error())
	}
	if n := s.Count(membership.ViewCollectionName); n != 0 {
		t.Errorf("view membership should be removed, have %d", n)
	}

	r := uc.Execute(context.Background(), RemoveUserFromTeamCommand{TeamID: "t2", UserID: "u1"}, execCtx)
	if r.IsSuccess() || r.Error().Code != common.ErrCodeMembershipNotFound {
		t.Errorf("expected MEMBERSHIP_NOT_FOUND, got %v", r.Error())
	}
}

func TestRemoveNonPrimaryKeepsPrimary(t *testing.T) {
	s, uow := setup()
	tm1 := mustAdd(t, s, uow, "t1")
	mustAdd(t, s, uow, "t2")

	r := NewRemoveUserFromTeamUseCase(s.Memberships(), uow).Execute(context.Background(), RemoveUserFromTeamCommand{TeamID: "t2", UserID: "u1"}, execCtx)
	if r.IsFailure() {
		t.Fatalf("remove failed: %v", r.Error())
	}
	if got := viewMembership(t, s).PrimaryTeamMembershipID; got != tm1.ID {
		t.Errorf("primary should stay %s, got %s", tm1.ID, got)
	}
}

// === Primary and role override ===

func TestSetPrimaryTeamMembership(t *testing.T) {
	s, uow := setup()
	mustAdd(t, s, uow, "t1")
	tm2 := mustAdd(t, s, uow, "t2")
	s.MustPut(&membership.TeamMembership{ID: "foreign", TeamID: "t9", UserID: "u2", ViewMembershipID: "vm-other"})
	vm := viewMembership(t, s)
	uc := NewSetPrimaryTeamMembershipUseCase(s.Memberships(), uow)

	r := uc.Execute(context.Background(), SetPrimaryTeamMembershipCommand{ViewMembershipID: vm.ID, TeamMembershipID: tm2.ID}, execCtx)
	if r.IsFailure() {
		t.Fatalf("set primary failed: %v", r.Error())
	}
	if got := viewMembership(t, s).PrimaryTeamMembershipID; got != tm2.ID {
		t.Errorf("primary = %s, want %s", got, tm2.ID)
	}

	r = uc.Execute(context.Background(), SetPrimaryTeamMembershipCommand{ViewMembershipID: vm.ID, TeamMembershipID: "foreign"}, execCtx)
	if r.IsSuccess() || r.Error().Code != common.ErrCodeInvalidValue {
		t.Errorf("expected INVALID_VALUE, got %v", r.Error())
	}
}

func TestSetTeamMembershipRole(t *testing.T) {
	s, uow := setup()
	tm := mustAdd(t, s, uow, "t1")
	uc := NewSetTeamMembershipRoleUseCase(s.Memberships(), s.TeamRoles(), uow)

	r := uc.Execute(context.Background(), SetTeamMembershipRoleCommand{TeamMembershipID: tm.ID, RoleID: "observer"}, execCtx)
	if r.IsFailure() {
		t.Fatalf("set role failed: %v", r.Error())
	}
	type changed interface{ HasChanged(...string) bool }
	if ev, ok := r.Value().(changed); !ok || !ev.HasChanged("RoleID") {
		t.Error("expected RoleID change on the event")
	}

	r = uc.Execute(context.Background(), SetTeamMembershipRoleCommand{TeamMembershipID: tm.ID, RoleID: "nope"}, execCtx)
	if r.IsSuccess() || r.Error().Code != common.ErrCodeTeamRoleNotFound {
		t.Errorf("expected TEAM_ROLE_NOT_FOUND, got %v", r.Error())
	}
}
