package view

import (
	"fmt"
	"testing"
	"time"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/team"
)

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func sourceGraph() *Graph {
	return &Graph{
		View: &View{ID: "v1", Name: "Exercise", Status: StatusInactive},
		Teams: []*team.Team{
			{ID: "t1", Name: "Blue", ViewID: "v1", RoleID: "member"},
			{ID: "t2", Name: "Red", ViewID: "v1"},
		},
		Assignments: []*team.PermissionAssignment{
			{ID: "pa1", TeamID: "t2", PermissionID: "tp1"},
		},
		Applications: []*application.Application{
			{ID: "a1", Name: "Mail", ViewID: "v1", URL: "https://mail.example/views/v1/inbox?app=a1"},
		},
		Instances: []*application.Instance{
			{ID: "i1", TeamID: "t1", ApplicationID: "a1", DisplayOrder: 2},
			{ID: "i2", TeamID: "t2", ApplicationID: "shared"},
		},
	}
}

func TestCloneGraph(t *testing.T) {
	src := sourceGraph()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	out, ids := CloneGraph(src, "Exercise (copy)", sequence(), now)

	if out.View.ParentViewID != "v1" || out.View.ID == "v1" {
		t.Errorf("clone should point at its source: %+v", out.View)
	}
	if out.View.Status != StatusActive || out.View.Name != "Exercise (copy)" {
		t.Errorf("unexpected view: %+v", out.View)
	}

	for i, tm := range out.Teams {
		if tm.ViewID != out.View.ID || tm.ID != ids[src.Teams[i].ID] {
			t.Errorf("team %d not re-linked: %+v", i, tm)
		}
	}
	if out.Teams[0].RoleID != "member" {
		t.Error("team role should be kept")
	}
	if got := out.Assignments[0].TeamID; got != ids["t2"] {
		t.Errorf("assignment team = %s, want %s", got, ids["t2"])
	}

	wantURL := fmt.Sprintf("https://mail.example/views/%s/inbox?app=%s", ids["v1"], ids["a1"])
	if out.Applications[0].URL != wantURL {
		t.Errorf("URL = %s, want %s", out.Applications[0].URL, wantURL)
	}

	if out.Instances[0].ApplicationID != ids["a1"] || out.Instances[0].TeamID != ids["t1"] || out.Instances[0].DisplayOrder != 2 {
		t.Errorf("instance not re-linked: %+v", out.Instances[0])
	}
	if out.Instances[1].ApplicationID != "shared" {
		t.Error("applications outside the graph keep their id")
	}
}

func TestCloneGraphLeavesSourceUntouched(t *testing.T) {
	src := sourceGraph()
	CloneGraph(src, "copy", sequence(), time.Now())

	if src.View.ID != "v1" || src.Teams[0].ViewID != "v1" || src.Instances[0].TeamID != "t1" {
		t.Error("source graph was modified")
	}
	if src.Applications[0].URL != "https://mail.example/views/v1/inbox?app=a1" {
		t.Error("source URL was modified")
	}
}

func TestIDMapLookup(t *testing.T) {
	m := IDMap{"a": "b"}
	if m.Lookup("a") != "b" || m.Lookup("z") != "z" {
		t.Error("Lookup should map known ids and pass others through")
	}
}
