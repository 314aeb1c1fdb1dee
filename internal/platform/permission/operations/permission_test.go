package operations

import (
	"context"
	"testing"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/memstore"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/user"
)

var execCtx = common.NewExecutionContext("tester")

func setup() (*memstore.Store, *common.MemoryUnitOfWork) {
	s := memstore.New()
	s.MustPut(
		&permission.Permission{ID: "p1", Name: "ViewViews"},
		&permission.Permission{ID: "sys", Name: "ManageRoles", Immutable: true},
		&role.RolePermission{ID: "g1", RoleID: "r1", PermissionID: "p1"},
		&user.PermissionAssignment{ID: "g2", UserID: "u1", PermissionID: "p1"},
	)
	return s, common.NewMemoryUnitOfWork(s, nil)
}

func TestCreatePermission(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreatePermissionCommand
		code string
	}{
		{"new", CreatePermissionCommand{Name: "ManageFiles"}, ""},
		{"name taken", CreatePermissionCommand{Name: "ViewViews"}, common.ErrCodeNameExists},
		{"blank", CreatePermissionCommand{Name: ""}, common.ErrCodeRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, uow := setup()
			r := NewCreatePermissionUseCase(s.Permissions(), uow).Execute(context.Background(), tt.cmd, execCtx)
			if tt.code == "" {
				if r.IsFailure() {
					t.Fatalf("create failed: %v", r.Error())
				}
				return
			}
			if r.IsSuccess() || r.Error().Code != tt.code {
				t.Errorf("expected %s, got %v", tt.code, r.Error())
			}
		})
	}
}

func TestImmutablePermission(t *testing.T) {
	s, uow := setup()

	r := NewUpdatePermissionUseCase(s.Permissions(), uow).Execute(context.Background(), UpdatePermissionCommand{ID: "sys", Description: "x"}, execCtx)
	if r.IsSuccess() || r.Error().Kind != common.ErrorKindForbidden {
		t.Errorf("update: expected forbidden, got %v", r.Error())
	}
	r = NewDeletePermissionUseCase(s.Permissions(), s.Roles(), s.Users(), uow).Execute(context.Background(), DeletePermissionCommand{ID: "sys"}, execCtx)
	if r.IsSuccess() || r.Error().Kind != common.ErrorKindForbidden {
		t.Errorf("delete: expected forbidden, got %v", r.Error())
	}
	if s.Count(permission.CollectionName) != 2 {
		t.Error("immutable permission must survive")
	}
}

func TestDeletePermissionRemovesGrants(t *testing.T) {
	s, uow := setup()

	r := NewDeletePermissionUseCase(s.Permissions(), s.Roles(), s.Users(), uow).Execute(context.Background(), DeletePermissionCommand{ID: "p1"}, execCtx)
	if r.IsFailure() {
		t.Fatalf("delete failed: %v", r.Error())
	}
	if s.Count(role.PermissionCollectionName) != 0 || s.Count(user.PermissionCollectionName) != 0 {
		t.Error("grants of a deleted permission must be removed")
	}
	if n := len(uow.Events()); n != 3 {
		t.Errorf("expected 3 events, got %d", n)
	}
}
