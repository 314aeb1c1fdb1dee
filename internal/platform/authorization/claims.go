package authorization

import (
	"slices"
	"time"

	"go.player.tech/internal/platform/teampermission"
)

// Claims is the materialized view of one user's effective permissions.
// It is a pure function of the entity graph at MaterializedAt and is cached
// until an invalidation evicts it.
type Claims struct {
	UserID            string      `json:"sub"`
	SystemPermissions []string    `json:"perms"`
	Teams             []TeamClaim `json:"teams"`
	MaterializedAt    time.Time   `json:"materializedAt"`
}

// TeamClaim is the permission bundle a user holds through one
// TeamMembership. Permissions mixes View and Team kinds.
type TeamClaim struct {
	ViewID      string             `json:"viewId"`
	TeamID      string             `json:"teamId"`
	IsPrimary   bool               `json:"isPrimary"`
	Permissions []ScopedPermission `json:"permissions"`
}

// HasAnySystem reports whether the user holds any of required.
func (c *Claims) HasAnySystem(required []SystemPermission) bool {
	if c == nil {
		return false
	}
	for _, p := range required {
		if slices.Contains(c.SystemPermissions, string(p)) {
			return true
		}
	}
	return false
}

// Team returns the claim for teamID.
func (c *Claims) Team(teamID string) (TeamClaim, bool) {
	if c == nil {
		return TeamClaim{}, false
	}
	for _, t := range c.Teams {
		if t.TeamID == teamID {
			return t, true
		}
	}
	return TeamClaim{}, false
}

// HasAnyViewPermission tests the union of every team claim sharing viewID.
func (c *Claims) HasAnyViewPermission(viewID string, required []ViewPermission) bool {
	if c == nil {
		return false
	}
	for _, t := range c.Teams {
		if t.ViewID == viewID && t.HasAnyView(required) {
			return true
		}
	}
	return false
}

// Primary returns the primary team claim for viewID.
func (c *Claims) Primary(viewID string) (TeamClaim, bool) {
	if c == nil {
		return TeamClaim{}, false
	}
	for _, t := range c.Teams {
		if t.ViewID == viewID && t.IsPrimary {
			return t, true
		}
	}
	return TeamClaim{}, false
}

// Has reports whether the claim carries p.
func (t TeamClaim) Has(p ScopedPermission) bool {
	return slices.Contains(t.Permissions, p)
}

// HasAnyTeam reports whether the claim carries any of required.
func (t TeamClaim) HasAnyTeam(required []TeamPermission) bool {
	for _, p := range required {
		if t.Has(ForTeam(p)) {
			return true
		}
	}
	return false
}

// HasAnyView reports whether the claim carries any of required.
func (t TeamClaim) HasAnyView(required []ViewPermission) bool {
	for _, p := range required {
		if t.Has(ForView(p)) {
			return true
		}
	}
	return false
}

// Values returns the values of one kind, e.g. every Team permission name.
func (t TeamClaim) Values(kind teampermission.Kind) []string {
	var out []string
	for _, p := range t.Permissions {
		if p.Kind == kind {
			out = append(out, p.Value)
		}
	}
	return out
}
