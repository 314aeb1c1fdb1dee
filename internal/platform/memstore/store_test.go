package memstore

import (
	"context"
	"errors"
	"testing"

	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/role"
)

func TestApplyEnforcesUniqueNames(t *testing.T) {
	s := New()
	s.MustPut(&role.Role{ID: "r1", Name: "Viewer"})

	err := s.Put(&role.Role{ID: "r2", Name: "Viewer"})
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if s.Count(role.CollectionName) != 1 {
		t.Errorf("failed write must not be applied")
	}

	// Re-saving the same aggregate is an update, not a clash.
	if err := s.Put(&role.Role{ID: "r1", Name: "Viewer", AllPermissions: true}); err != nil {
		t.Errorf("update of same id should succeed: %v", err)
	}
}

func TestApplyEnforcesUniqueGrantPairs(t *testing.T) {
	s := New()
	s.MustPut(&role.RolePermission{ID: "g1", RoleID: "r1", PermissionID: "p1"})

	err := s.Put(&role.RolePermission{ID: "g2", RoleID: "r1", PermissionID: "p1"})
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// The same pair inside one batch also clashes.
	err = s.Apply(context.Background(), []common.AggregateRoot{
		&role.RolePermission{ID: "g3", RoleID: "r2", PermissionID: "p1"},
		&role.RolePermission{ID: "g4", RoleID: "r2", PermissionID: "p1"},
	}, nil)
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey within batch, got %v", err)
	}
}

func TestApplyDeleteFreesUniqueKey(t *testing.T) {
	s := New()
	old := &role.Role{ID: "r1", Name: "Viewer"}
	s.MustPut(old)

	err := s.Apply(context.Background(),
		[]common.AggregateRoot{&role.Role{ID: "r2", Name: "Viewer"}},
		[]common.AggregateRoot{old})
	if err != nil {
		t.Fatalf("replacing a deleted name should succeed: %v", err)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := New()
	original := &role.Role{ID: "r1", Name: "Viewer"}
	s.MustPut(original)
	original.Name = "mutated after put"

	got, err := s.Roles().FindByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != "Viewer" {
		t.Errorf("store aliased caller pointer, Name = %q", got.Name)
	}

	got.Name = "mutated after read"
	again, _ := s.Roles().FindByID(context.Background(), "r1")
	if again.Name != "Viewer" {
		t.Errorf("store aliased returned pointer, Name = %q", again.Name)
	}
}

func TestFindMissingReturnsNotFound(t *testing.T) {
	s := New()
	if _, err := s.Roles().FindByID(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("FindByID: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Roles().FindByName(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("FindByName: expected ErrNotFound, got %v", err)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := New()
	s.MustPut(&role.Role{ID: "b", Name: "B"}, &role.Role{ID: "a", Name: "A"}, &role.Role{ID: "c", Name: "C"})
	// updating must not move an entry
	s.MustPut(&role.Role{ID: "b", Name: "B2"})

	roles, _ := s.Roles().FindAll(context.Background())
	var got []string
	for _, r := range roles {
		got = append(got, r.ID)
	}
	if len(got) != 3 || got[0] != "b" || got[1] != "a" || got[2] != "c" {
		t.Errorf("order = %v, want [b a c]", got)
	}
}
