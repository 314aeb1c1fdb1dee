package operations

import (
	"context"
	"testing"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/user"
)

var execCtx = common.NewExecutionContext("tester")

func setup() (*memstore.Store, *common.MemoryUnitOfWork) {
	s := memstore.New()
	s.MustPut(
		&role.Role{ID: "r1", Name: "Viewer"},
		&permission.Permission{ID: "p1", Name: "ManageUsers"},
		&user.User{ID: "u1", Name: "Alice"},
	)
	return s, common.NewMemoryUnitOfWork(s, nil)
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateUserCommand
		code string
	}{
		{"external id", CreateUserCommand{ID: "auth0|bob", Name: "Bob", RoleID: "r1"}, ""},
		{"generated id", CreateUserCommand{Name: "Carol"}, ""},
		{"id taken", CreateUserCommand{ID: "u1", Name: "Alice"}, common.ErrCodeNameExists},
		{"missing role", CreateUserCommand{Name: "Dan", RoleID: "nope"}, common.ErrCodeRoleNotFound},
		{"blank name", CreateUserCommand{ID: "x"}, common.ErrCodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, uow := setup()
			r := NewCreateUserUseCase(s.Users(), s.Roles(), uow).Execute(context.Background(), tt.cmd, execCtx)
			if tt.code == "" {
				if r.IsFailure() {
					t.Fatalf("create failed: %v", r.Error())
				}
				if n := s.Count(user.CollectionName); n != 2 {
					t.Errorf("expected 2 users, got %d", n)
				}
				return
			}
			if r.IsSuccess() || r.Error().Code != tt.code {
				t.Errorf("expected %s, got %v", tt.code, r.Error())
			}
		})
	}
}

func TestUpdateUserRole(t *testing.T) {
	s, uow := setup()
	uc := NewUpdateUserUseCase(s.Users(), s.Roles(), uow)
	r1, none, bad := "r1", "", "nope"

	if r := uc.Execute(context.Background(), UpdateUserCommand{ID: "u1", RoleID: &r1}, execCtx); r.IsFailure() {
		t.Fatalf("update failed: %v", r.Error())
	}
	u, _ := s.Users().FindByID(context.Background(), "u1")
	if u.RoleID != "r1" {
		t.Errorf("RoleID = %q", u.RoleID)
	}

	if r := uc.Execute(context.Background(), UpdateUserCommand{ID: "u1", RoleID: &bad}, execCtx); r.IsSuccess() {
		t.Error("unknown role should fail")
	}
	if r := uc.Execute(context.Background(), UpdateUserCommand{ID: "u1", RoleID: &none}, execCtx); r.IsFailure() {
		t.Fatalf("clearing role failed: %v", r.Error())
	}
	u, _ = s.Users().FindByID(context.Background(), "u1")
	if u.RoleID != "" {
		t.Errorf("RoleID should be cleared, got %q", u.RoleID)
	}
}

func TestDeleteUserRemovesMemberships(t *testing.T) {
	s, uow := setup()
	s.MustPut(
		&user.PermissionAssignment{ID: "g1", UserID: "u1", PermissionID: "p1"},
		&membership.ViewMembership{ID: "vm1", ViewID: "v1", UserID: "u1", PrimaryTeamMembershipID: "tm1"},
		&membership.TeamMembership{ID: "tm1", TeamID: "t1", UserID: "u1", ViewMembershipID: "vm1"},
	)

	if r := NewDeleteUserUseCase(s.Users(), s.Memberships(), uow).Execute(context.Background(), DeleteUserCommand{ID: "u1"}, execCtx); r.IsFailure() {
		t.Fatalf("delete failed: %v", r.Error())
	}
	for _, coll := range []string{user.CollectionName, user.PermissionCollectionName, membership.ViewCollectionName, membership.TeamCollectionName} {
		if n := s.Count(coll); n != 0 {
			t.Errorf("%s: expected empty, got %d", coll, n)
		}
	}
}

func TestUserPermissionGrants(t *testing.T) {
	s, uow := setup()
	add := NewAddUserPermissionUseCase(s.Users(), s.Permissions(), uow)
	remove := NewRemoveUserPermissionUseCase(s.Users(), s.Permissions(), uow)
	cmd := UserPermissionCommand{UserID: "u1", PermissionID: "p1"}

	if r := add.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("add failed: %v", r.Error())
	}
	if r := add.Execute(context.Background(), cmd, execCtx); r.IsSuccess() || r.Error().Code != common.ErrCodeGrantExists {
		t.Errorf("expected GRANT_EXISTS, got %v", r.Error())
	}
	if n := s.Count(user.PermissionCollectionName); n != 1 {
		t.Errorf("expected one grant row, got %d", n)
	}
	if r := add.Execute(context.Background(), UserPermissionCommand{UserID: "ghost", PermissionID: "p1"}, execCtx); r.IsSuccess() || r.Error().Code != common.ErrCodeUserNotFound {
		t.Errorf("expected USER_NOT_FOUND, got %v", r.Error())
	}
	if r := remove.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("remove failed: %v", r.Error())
	}
	if r := remove.Execute(context.Background(), cmd, execCtx); r.IsSuccess() || r.Error().Code != common.ErrCodeGrantNotFound {
		t.Errorf("expected GRANT_NOT_FOUND, got %v", r.Error())
	}
}
