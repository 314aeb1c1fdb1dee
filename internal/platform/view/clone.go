package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/team"
)

// Graph is a View with everything that is copied when it is cloned.
// Memberships are not part of the graph.
type Graph struct {
	View         *View
	Teams        []*team.Team
	Assignments  []*team.PermissionAssignment
	Applications []*application.Application
	Instances    []*application.Instance
}

// IDMap maps source ids to the ids of their copies.
type IDMap map[string]string

// Lookup returns the copy id for id, or id itself when it was not copied.
func (m IDMap) Lookup(id string) string {
	if v, ok := m[id]; ok {
		return v
	}
	return id
}

// LoadGraph reads the clonable graph of one view.
func LoadGraph(ctx context.Context, views Repository, teams team.Repository, apps application.Repository, viewID string) (*Graph, error) {
	v, err := views.FindByID(ctx, viewID)
	if err != nil {
		return nil, err
	}
	g := &Graph{View: v}

	if g.Teams, err = teams.FindByView(ctx, viewID); err != nil {
		return nil, fmt.Errorf("find teams: %w", err)
	}
	for _, t := range g.Teams {
		assignments, err := teams.FindPermissions(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("find permissions of team %s: %w", t.ID, err)
		}
		g.Assignments = append(g.Assignments, assignments...)

		instances, err := apps.FindInstancesByTeam(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("find instances of team %s: %w", t.ID, err)
		}
		g.Instances = append(g.Instances, instances...)
	}
	if g.Applications, err = apps.FindByView(ctx, viewID); err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	return g, nil
}

// CloneGraph copies src under fresh ids from newID. The new View is named
// name, is Active and has ParentViewID set to the source. References
// inside the graph are re-linked through the returned IDMap, and source
// ids embedded in application URLs are replaced by their copies.
// Instances of applications outside the graph keep their application id.
func CloneGraph(src *Graph, name string, newID func() string, now time.Time) (*Graph, IDMap) {
	ids := IDMap{src.View.ID: newID()}
	for _, t := range src.Teams {
		ids[t.ID] = newID()
	}
	for _, a := range src.Applications {
		ids[a.ID] = newID()
	}

	v := *src.View
	v.ID = ids[src.View.ID]
	v.ParentViewID = src.View.ID
	v.Name = name
	v.Status = StatusActive
	v.CreatedAt, v.UpdatedAt = now, now
	out := &Graph{View: &v}

	for _, t := range src.Teams {
		c := *t
		c.ID = ids[t.ID]
		c.ViewID = v.ID
		c.CreatedAt, c.UpdatedAt = now, now
		out.Teams = append(out.Teams, &c)
	}
	for _, a := range src.Assignments {
		c := *a
		c.ID = newID()
		c.TeamID = ids.Lookup(a.TeamID)
		c.CreatedAt = now
		out.Assignments = append(out.Assignments, &c)
	}
	for _, a := range src.Applications {
		c := *a
		c.ID = ids[a.ID]
		c.ViewID = v.ID
		c.URL = ids.rewrite(a.URL)
		c.CreatedAt, c.UpdatedAt = now, now
		out.Applications = append(out.Applications, &c)
	}
	for _, i := range src.Instances {
		c := *i
		c.ID = newID()
		c.TeamID = ids.Lookup(i.TeamID)
		c.ApplicationID = ids.Lookup(i.ApplicationID)
		c.CreatedAt = now
		out.Instances = append(out.Instances, &c)
	}
	return out, ids
}

// rewrite replaces every mapped id occurring in s.
func (m IDMap) rewrite(s string) string {
	if s == "" {
		return s
	}
	pairs := make([]string, 0, 2*len(m))
	for old, replacement := range m {
		pairs = append(pairs, old, replacement)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
