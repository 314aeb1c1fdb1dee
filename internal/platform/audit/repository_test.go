package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
)

func sampleLogs() []common.AuditLog {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return []common.AuditLog{
		{ID: "a1", EntityType: "Role", EntityID: "r1", Operation: "CreateRole", PrincipalID: "admin", PerformedAt: base},
		{ID: "a2", EntityType: "Role", EntityID: "r1", Operation: "UpdateRole", PrincipalID: "admin", PerformedAt: base.Add(time.Minute)},
		{ID: "a3", EntityType: "Team", EntityID: "t1", Operation: "CreateTeam", PrincipalID: "ops", PerformedAt: base.Add(2 * time.Minute)},
		{ID: "a4", EntityType: "Role", EntityID: "r2", Operation: "CreateRole", PrincipalID: "ops", PerformedAt: base.Add(3 * time.Minute)},
	}
}

func ids(page *Page) []string {
	out := make([]string, 0, len(page.AuditLogs))
	for _, l := range page.AuditLogs {
		out = append(out, l.ID)
	}
	return out
}

func TestMemorySearch(t *testing.T) {
	repo := NewMemoryRepository(sampleLogs)

	tests := []struct {
		name  string
		query Query
		want  []string
		total int64
	}{
		{"everything newest first", Query{}, []string{"a4", "a3", "a2", "a1"}, 4},
		{"by entity", Query{EntityType: "Role", EntityID: "r1"}, []string{"a2", "a1"}, 2},
		{"by principal", Query{PrincipalID: "ops"}, []string{"a4", "a3"}, 2},
		{"by operation", Query{Operation: "CreateRole"}, []string{"a4", "a1"}, 2},
		{"second page", Query{Page: 1, PageSize: 3}, []string{"a1"}, 4},
		{"past the end", Query{Page: 5, PageSize: 3}, []string{}, 4},
		{"no match", Query{EntityType: "View"}, []string{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.Search(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			got := ids(page)
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ids = %v, want %v", got, tt.want)
					break
				}
			}
			if page.Total != tt.total {
				t.Errorf("total = %d, want %d", page.Total, tt.total)
			}
		})
	}
}

func TestQueryNormalized(t *testing.T) {
	q := Query{Page: -2, PageSize: 0}.normalized()
	if q.Page != 0 || q.PageSize != DefaultPageSize {
		t.Errorf("normalized = %+v", q)
	}
	if got := (Query{PageSize: 10_000}).normalized().PageSize; got != MaxPageSize {
		t.Errorf("page size = %d, want capped at %d", got, MaxPageSize)
	}
}

func TestMemoryFindByID(t *testing.T) {
	repo := NewMemoryRepository(sampleLogs)

	log, err := repo.FindByID(context.Background(), "a3")
	if err != nil || log.Operation != "CreateTeam" {
		t.Errorf("FindByID = %+v, %v", log, err)
	}
	if _, err := repo.FindByID(context.Background(), "zz"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
