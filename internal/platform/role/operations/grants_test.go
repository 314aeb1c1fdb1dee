package operations

import (
	"context"
	"sync"
	"testing"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/user"
)

func setup() (*memstore.Store, *common.MemoryUnitOfWork) {
	s := memstore.New()
	s.MustPut(
		&role.Role{ID: "r1", Name: "Viewer"},
		&role.Role{ID: "admin", Name: "Administrator", AllPermissions: true, Immutable: true},
		&permission.Permission{ID: "p1", Name: "ViewViews"},
		&permission.Permission{ID: "p2", Name: "ManageViews"},
	)
	return s, common.NewMemoryUnitOfWork(s, nil)
}

var execCtx = common.NewExecutionContext("tester")

func expectKind(t *testing.T, r common.Result[common.DomainEvent], kind common.ErrorKind, code string) {
	t.Helper()
	if r.IsSuccess() {
		t.Fatalf("expected %s failure, got success", kind)
	}
	if r.Error().Kind != kind || (code != "" && r.Error().Code != code) {
		t.Fatalf("expected %s/%s, got %v", kind, code, r.Error())
	}
}

// === AddPermissionToRole ===

func TestAddPermissionToRoleTwiceKeepsOneRow(t *testing.T) {
	s, uow := setup()
	uc := NewAddPermissionToRoleUseCase(s.Roles(), s.Permissions(), uow)
	cmd := RolePermissionCommand{RoleID: "r1", PermissionID: "p1"}

	if r := uc.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("first grant failed: %v", r.Error())
	}
	expectKind(t, uc.Execute(context.Background(), cmd, execCtx), common.ErrorKindConflict, common.ErrCodeGrantExists)

	if n := s.Count(role.PermissionCollectionName); n != 1 {
		t.Errorf("expected exactly one RolePermission row, got %d", n)
	}
	if n := len(uow.Events()); n != 1 {
		t.Errorf("expected one event, got %d", n)
	}
}

func TestAddPermissionToRoleConcurrentKeepsOneRow(t *testing.T) {
	s, uow := setup()
	uc := NewAddPermissionToRoleUseCase(s.Roles(), s.Permissions(), uow)
	cmd := RolePermissionCommand{RoleID: "r1", PermissionID: "p2"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.Execute(context.Background(), cmd, execCtx)
		}()
	}
	wg.Wait()

	if n := s.Count(role.PermissionCollectionName); n != 1 {
		t.Errorf("expected exactly one RolePermission row, got %d", n)
	}
}

func TestGrantMissingEntities(t *testing.T) {
	s, uow := setup()
	add := NewAddPermissionToRoleUseCase(s.Roles(), s.Permissions(), uow)
	remove := NewRemovePermissionFromRoleUseCase(s.Roles(), s.Permissions(), uow)

	tests := []struct {
		name string
		cmd  RolePermissionCommand
		code string
	}{
		{"missing role", RolePermissionCommand{RoleID: "nope", PermissionID: "p1"}, common.ErrCodeRoleNotFound},
		{"missing permission", RolePermissionCommand{RoleID: "r1", PermissionID: "nope"}, common.ErrCodePermissionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectKind(t, add.Execute(context.Background(), tt.cmd, execCtx), common.ErrorKindNotFound, tt.code)
			expectKind(t, remove.Execute(context.Background(), tt.cmd, execCtx), common.ErrorKindNotFound, tt.code)
		})
	}
	if n := s.Count(role.PermissionCollectionName); n != 0 {
		t.Errorf("failed grants must not write, got %d rows", n)
	}
}

// === RemovePermissionFromRole ===

func TestRemovePermissionFromRole(t *testing.T) {
	s, uow := setup()
	s.MustPut(&role.RolePermission{ID: "g1", RoleID: "r1", PermissionID: "p1"})
	uc := NewRemovePermissionFromRoleUseCase(s.Roles(), s.Permissions(), uow)
	cmd := RolePermissionCommand{RoleID: "r1", PermissionID: "p1"}

	if r := uc.Execute(context.Background(), cmd, execCtx); r.IsFailure() {
		t.Fatalf("remove failed: %v", r.Error())
	}
	if n := s.Count(role.PermissionCollectionName); n != 0 {
		t.Errorf("expected grant removed, %d left", n)
	}
	expectKind(t, uc.Execute(context.Background(), cmd, execCtx), common.ErrorKindNotFound, common.ErrCodeGrantNotFound)
}

// === Role CRUD ===

func TestCreateRole(t *testing.T) {
	s, uow := setup()
	uc := NewCreateRoleUseCase(s.Roles(), uow)

	r := uc.Execute(context.Background(), CreateRoleCommand{Name: " Editor "}, execCtx)
	if r.IsFailure() {
		t.Fatalf("create failed: %v", r.Error())
	}
	if r.Value().EventType() != "player:role:created" {
		t.Errorf("unexpected event type %s", r.Value().EventType())
	}
	if _, err := s.Roles().FindByName(context.Background(), "Editor"); err != nil {
		t.Errorf("role not stored under trimmed name: %v", err)
	}

	expectKind(t, uc.Execute(context.Background(), CreateRoleCommand{Name: "Viewer"}, execCtx), common.ErrorKindConflict, common.ErrCodeNameExists)
	expectKind(t, uc.Execute(context.Background(), CreateRoleCommand{Name: "  "}, execCtx), common.ErrorKindValidation, common.ErrCodeRequired)
}

func TestUpdateRole(t *testing.T) {
	s, uow := setup()
	uc := NewUpdateRoleUseCase(s.Roles(), uow)
	name := func(v string) *string { return &v }
	yes := true

	t.Run("immutable", func(t *testing.T) {
		expectKind(t, uc.Execute(context.Background(), UpdateRoleCommand{ID: "admin", Name: name("Root")}, execCtx), common.ErrorKindForbidden, common.ErrCodeImmutable)
	})
	t.Run("name taken", func(t *testing.T) {
		expectKind(t, uc.Execute(context.Background(), UpdateRoleCommand{ID: "r1", Name: name("Administrator")}, execCtx), common.ErrorKindConflict, common.ErrCodeNameExists)
	})
	t.Run("missing", func(t *testing.T) {
		expectKind(t, uc.Execute(context.Background(), UpdateRoleCommand{ID: "nope"}, execCtx), common.ErrorKindNotFound, common.ErrCodeRoleNotFound)
	})
	t.Run("changes recorded", func(t *testing.T) {
		r := uc.Execute(context.Background(), UpdateRoleCommand{ID: "r1", Name: name("Viewer"), AllPermissions: &yes}, execCtx)
		if r.IsFailure() {
			t.Fatalf("update failed: %v", r.Error())
		}
		type changed interface{ HasChanged(...string) bool }
		ev, ok := r.Value().(changed)
		if !ok || !ev.HasChanged("AllPermissions") || ev.HasChanged("Name") {
			t.Errorf("unexpected changed properties on %T", r.Value())
		}
	})
}

func TestDeleteRole(t *testing.T) {
	s, uow := setup()
	s.MustPut(
		&role.RolePermission{ID: "g1", RoleID: "r1", PermissionID: "p1"},
		&user.User{ID: "u1", RoleID: "r1"},
	)
	uc := NewDeleteRoleUseCase(s.Roles(), s.Users(), uow)

	expectKind(t, uc.Execute(context.Background(), DeleteRoleCommand{ID: "admin"}, execCtx), common.ErrorKindForbidden, common.ErrCodeImmutable)

	if r := uc.Execute(context.Background(), DeleteRoleCommand{ID: "r1"}, execCtx); r.IsFailure() {
		t.Fatalf("delete failed: %v", r.Error())
	}
	if s.Count(role.PermissionCollectionName) != 0 {
		t.Error("grants should be removed with the role")
	}
	u, _ := s.Users().FindByID(context.Background(), "u1")
	if u.RoleID != "" {
		t.Errorf("user should be unassigned, RoleID=%q", u.RoleID)
	}
	if n := len(uow.Events()); n != 3 {
		t.Errorf("expected role, grant and user events, got %d", n)
	}
}
