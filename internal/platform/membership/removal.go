package membership

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
)

// PlanRemoval adds to changes everything needed to delete the given team
// memberships while keeping their view memberships consistent: a view
// membership left without team memberships is deleted, and one whose
// primary is removed is re-pointed at the oldest remaining membership.
func PlanRemoval(
	ctx context.Context,
	repo Repository,
	removed []*TeamMembership,
	changes *common.Changes,
	execCtx *common.ExecutionContext,
) error {
	gone := make(map[string]bool, len(removed))
	byView := make(map[string]bool)
	var order []string
	for _, m := range removed {
		changes.Delete(m).Record(events.NewDeleted(execCtx, m))
		gone[m.ID] = true
		if !byView[m.ViewMembershipID] {
			byView[m.ViewMembershipID] = true
			order = append(order, m.ViewMembershipID)
		}
	}

	now := time.Now()
	for _, vmID := range order {
		vm, err := repo.FindViewMembershipByID(ctx, vmID)
		if err != nil {
			// A dangling reference leaves nothing to repair.
			continue
		}
		siblings, err := repo.FindTeamMembershipsByViewMembership(ctx, vmID)
		if err != nil {
			return fmt.Errorf("find team memberships of %s: %w", vmID, err)
		}

		var remaining []*TeamMembership
		for _, s := range siblings {
			if !gone[s.ID] {
				remaining = append(remaining, s)
			}
		}

		if len(remaining) == 0 {
			changes.Delete(vm).Record(events.NewDeleted(execCtx, vm))
			continue
		}
		if gone[vm.PrimaryTeamMembershipID] {
			slices.SortFunc(remaining, byAge)
			updated := *vm
			updated.PrimaryTeamMembershipID = remaining[0].ID
			updated.UpdatedAt = now
			changes.Save(&updated).Record(events.NewUpdated(execCtx, vm, &updated))
		}
	}
	return nil
}

func byAge(a, b *TeamMembership) int {
	return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
}
