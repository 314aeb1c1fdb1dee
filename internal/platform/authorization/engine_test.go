package authorization

import (
	"context"
	"errors"
	"testing"
)

type fakeResolver map[ResourceRef]Scope

func (f fakeResolver) Resolve(_ context.Context, ref ResourceRef) (Scope, bool, error) {
	if ref.ID == "broken" {
		return Scope{}, false, errors.New("connection reset")
	}
	s, ok := f[ref]
	return s, ok, nil
}

func testClaims() *Claims {
	return &Claims{
		UserID:            "u1",
		SystemPermissions: []string{string(ViewViews)},
		Teams: []TeamClaim{
			{ViewID: "v1", TeamID: "t1", IsPrimary: true, Permissions: []ScopedPermission{ForTeam(ViewTeam)}},
			{ViewID: "v1", TeamID: "t2", Permissions: []ScopedPermission{ForView(EditView), ForTeam(ManageTeam)}},
			{ViewID: "v2", TeamID: "t3", Permissions: []ScopedPermission{ForView(ViewView)}},
		},
	}
}

func testEngine() *Engine {
	return NewEngine(fakeResolver{
		{Kind: ResourceTeam, ID: "t1"}:                {ViewID: "v1", TeamID: "t1"},
		{Kind: ResourceTeam, ID: "t3"}:                {ViewID: "v2", TeamID: "t3"},
		{Kind: ResourceTeam, ID: "t9"}:                {ViewID: "v9", TeamID: "t9"},
		{Kind: ResourceView, ID: "v1"}:                {ViewID: "v1"},
		{Kind: ResourceApplication, ID: "a1"}:         {ViewID: "v2"},
		{Kind: ResourceApplicationInstance, ID: "i1"}: {ViewID: "v1", TeamID: "t1"},
	}, nil)
}

// === Decision paths ===

func TestAuthorize(t *testing.T) {
	engine := testEngine()
	ctx := context.Background()

	tests := []struct {
		name string
		req  Requirement
		want bool
	}{
		{"system permission held", Requirement{System: []SystemPermission{ViewViews}}, true},
		{"system permission missing", Requirement{System: []SystemPermission{ManageViews}}, false},
		{"system overrides unresolvable resource", Requirement{System: []SystemPermission{ViewViews}, Resource: Ref(ResourceTeam, "missing")}, true},
		{"team permission on own team", Requirement{Team: []TeamPermission{ViewTeam}, Resource: Ref(ResourceTeam, "t1")}, true},
		{"team permission does not leak to sibling team", Requirement{Team: []TeamPermission{ManageTeam}, Resource: Ref(ResourceTeam, "t1")}, false},
		{"view permission through sibling team", Requirement{View: []ViewPermission{EditView}, Resource: Ref(ResourceTeam, "t1")}, true},
		{"view permission on view resource", Requirement{View: []ViewPermission{EditView}, Resource: Ref(ResourceView, "v1")}, true},
		{"view permission in other view", Requirement{View: []ViewPermission{EditView}, Resource: Ref(ResourceApplication, "a1")}, false},
		{"view permission on application", Requirement{View: []ViewPermission{ViewView}, Resource: Ref(ResourceApplication, "a1")}, true},
		{"instance resolves to its team", Requirement{Team: []TeamPermission{ViewTeam}, Resource: Ref(ResourceApplicationInstance, "i1")}, true},
		{"not a member", Requirement{Team: []TeamPermission{ViewTeam}, Resource: Ref(ResourceTeam, "t9")}, false},
		{"unresolved resource denies", Requirement{Team: []TeamPermission{ViewTeam}, Resource: Ref(ResourceTeam, "missing")}, false},
		{"resolver error denies", Requirement{Team: []TeamPermission{ViewTeam}, Resource: Ref(ResourceTeam, "broken")}, false},
		{"any scope team permission", Requirement{Team: []TeamPermission{ManageTeam}}, true},
		{"any scope view permission", Requirement{View: []ViewPermission{ViewView}}, true},
		{"any scope missing", Requirement{View: []ViewPermission{ManageView}}, false},
		{"empty requirement denies", Requirement{}, false},
		{"empty requirement with resource denies", Requirement{Resource: Ref(ResourceTeam, "t1")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.Authorize(ctx, testClaims(), tt.req); got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeNilClaimsDenies(t *testing.T) {
	engine := testEngine()
	if engine.Authorize(context.Background(), nil, Requirement{System: []SystemPermission{ViewViews}}) {
		t.Error("nil claims must be denied")
	}
}

// Adding a permission never turns an allow into a deny.
func TestAuthorizeMonotonic(t *testing.T) {
	engine := testEngine()
	ctx := context.Background()
	req := Requirement{Team: []TeamPermission{ViewTeam}, Resource: Ref(ResourceTeam, "t1")}

	claims := testClaims()
	if !engine.Authorize(ctx, claims, req) {
		t.Fatal("expected allow before adding permissions")
	}

	claims.SystemPermissions = append(claims.SystemPermissions, string(ManageViews))
	claims.Teams[0].Permissions = append(claims.Teams[0].Permissions, ForView(ManageView))
	if !engine.Authorize(ctx, claims, req) {
		t.Error("expected allow after adding permissions")
	}
}

// === Resolver ===

func TestResolverUnknownKindPanics(t *testing.T) {
	r := NewResolver(nil, nil, nil, nil)

	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic for unknown kind")
		}
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrUnknownResourceKind) {
			t.Errorf("panic value = %v, want ErrUnknownResourceKind", rec)
		}
	}()
	r.Resolve(context.Background(), ResourceRef{Kind: "Spaceship", ID: "x"})
}

func TestResolverKinds(t *testing.T) {
	kinds := NewResolver(nil, nil, nil, nil).Kinds()
	if len(kinds) != 6 {
		t.Errorf("expected 6 resource kinds, got %d: %v", len(kinds), kinds)
	}
}

// === Claims helpers ===

func TestClaimsPrimary(t *testing.T) {
	claims := testClaims()

	p, ok := claims.Primary("v1")
	if !ok || p.TeamID != "t1" {
		t.Errorf("Primary(v1) = %v, %v; want t1", p.TeamID, ok)
	}
	if _, ok := claims.Primary("v2"); ok {
		t.Error("v2 has no primary team")
	}
	if got := claims.Teams[1].Values("Team"); len(got) != 1 || got[0] != "ManageTeam" {
		t.Errorf("Values(Team) = %v", got)
	}
}

func TestScopedPermissionKindsDoNotCollide(t *testing.T) {
	claim := TeamClaim{Permissions: []ScopedPermission{{Kind: "View", Value: "Manage"}}}
	if claim.Has(ScopedPermission{Kind: "Team", Value: "Manage"}) {
		t.Error("a View permission must not satisfy a Team permission of the same name")
	}
}
