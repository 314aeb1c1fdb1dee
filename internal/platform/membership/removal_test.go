package membership_test

import (
	"context"
	"testing"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/memstore"
)

func TestPlanRemovalRepointsPrimaryAtOldest(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	primary := &membership.TeamMembership{ID: "tm-a", TeamID: "t1", UserID: "u1", ViewMembershipID: "vm1", CreatedAt: base}

	s := memstore.New()
	// Stored newest first so store order and age disagree.
	s.MustPut(
		&membership.ViewMembership{ID: "vm1", ViewID: "v1", UserID: "u1", PrimaryTeamMembershipID: "tm-a"},
		primary,
		&membership.TeamMembership{ID: "tm-c", TeamID: "t3", UserID: "u1", ViewMembershipID: "vm1", CreatedAt: base.Add(2 * time.Hour)},
		&membership.TeamMembership{ID: "tm-b", TeamID: "t2", UserID: "u1", ViewMembershipID: "vm1", CreatedAt: base.Add(time.Hour)},
	)

	var changes common.Changes
	err := membership.PlanRemoval(context.Background(), s.Memberships(),
		[]*membership.TeamMembership{primary}, &changes, common.NewExecutionContext("admin"))
	if err != nil {
		t.Fatalf("PlanRemoval: %v", err)
	}

	if len(changes.Saved) != 1 {
		t.Fatalf("saved %d aggregates, want 1", len(changes.Saved))
	}
	vm, ok := changes.Saved[0].(*membership.ViewMembership)
	if !ok {
		t.Fatalf("saved %T, want *membership.ViewMembership", changes.Saved[0])
	}
	if vm.PrimaryTeamMembershipID != "tm-b" {
		t.Errorf("primary = %q, want the oldest remaining tm-b", vm.PrimaryTeamMembershipID)
	}
	if len(changes.Deleted) != 1 || changes.Deleted[0].AggregateID() != "tm-a" {
		t.Errorf("deleted = %v", changes.Deleted)
	}
}

func TestPlanRemovalDropsEmptyViewMembership(t *testing.T) {
	only := &membership.TeamMembership{ID: "tm-a", TeamID: "t1", UserID: "u1", ViewMembershipID: "vm1"}
	s := memstore.New()
	s.MustPut(&membership.ViewMembership{ID: "vm1", ViewID: "v1", UserID: "u1", PrimaryTeamMembershipID: "tm-a"}, only)

	var changes common.Changes
	err := membership.PlanRemoval(context.Background(), s.Memberships(),
		[]*membership.TeamMembership{only}, &changes, common.NewExecutionContext("admin"))
	if err != nil {
		t.Fatalf("PlanRemoval: %v", err)
	}
	if len(changes.Saved) != 0 || len(changes.Deleted) != 2 {
		t.Errorf("saved %d, deleted %d; want 0 and 2", len(changes.Saved), len(changes.Deleted))
	}
}
