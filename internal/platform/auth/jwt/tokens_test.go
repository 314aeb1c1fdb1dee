package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go.player.tech/internal/platform/authorization"
	"go.player.tech/internal/platform/teampermission"
)

func newService(t *testing.T) *TokenService {
	t.Helper()
	km := NewKeyManager(nil)
	if err := km.Initialize(KeySource{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return NewTokenService(km, TokenServiceConfig{Issuer: "player-test"})
}

func sampleClaims() *authorization.Claims {
	return &authorization.Claims{
		UserID:            "user-1",
		SystemPermissions: []string{"ManageRoles"},
		Teams: []authorization.TeamClaim{
			{
				ViewID:    "view-1",
				TeamID:    "team-1",
				IsPrimary: true,
				Permissions: []authorization.ScopedPermission{
					{Kind: teampermission.KindView, Value: "ViewView"},
					{Kind: teampermission.KindTeam, Value: "EditTeam"},
				},
			},
		},
	}
}

// === Claims tokens ===

func TestClaimsTokenCarriesClaims(t *testing.T) {
	svc := newService(t)

	token, err := svc.IssueClaimsToken(sampleClaims())
	if err != nil {
		t.Fatalf("IssueClaimsToken: %v", err)
	}

	parsed, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if parsed.Principal() != "user-1" {
		t.Errorf("Principal() = %q, want user-1", parsed.Principal())
	}

	claims := parsed.Claims()
	if claims == nil {
		t.Fatal("expected claims from a claims token")
	}
	if !claims.HasAnySystem([]authorization.SystemPermission{"ManageRoles"}) {
		t.Error("system permission lost in transport")
	}
	team, ok := claims.Team("team-1")
	if !ok {
		t.Fatal("team claim lost in transport")
	}
	if !team.IsPrimary || team.ViewID != "view-1" {
		t.Errorf("team claim = %+v", team)
	}
	if !team.Has(authorization.ScopedPermission{Kind: teampermission.KindTeam, Value: "EditTeam"}) {
		t.Error("scoped permission lost in transport")
	}
	if team.Has(authorization.ScopedPermission{Kind: teampermission.KindView, Value: "EditTeam"}) {
		t.Error("kind tag must survive transport")
	}
}

func TestIssueClaimsTokenRequiresUser(t *testing.T) {
	svc := newService(t)
	if _, err := svc.IssueClaimsToken(&authorization.Claims{}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.IssueClaimsToken(nil); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for nil claims, got %v", err)
	}
}

// === Access tokens ===

func TestAccessTokenHasNoClaims(t *testing.T) {
	svc := newService(t)

	token, err := svc.IssueAccessToken("user-2")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	parsed, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if parsed.Principal() != "user-2" {
		t.Errorf("Principal() = %q", parsed.Principal())
	}
	if parsed.Claims() != nil {
		t.Error("access token must not carry claims")
	}
}

func TestIssueAccessTokenFor(t *testing.T) {
	svc := newService(t)
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"explicit lifetime", 24 * time.Hour, 24 * time.Hour},
		{"zero falls back to configured expiry", 0, time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.IssueAccessTokenFor("user-3", tt.ttl)
			if err != nil {
				t.Fatalf("IssueAccessTokenFor: %v", err)
			}
			parsed, _, err := jwt.NewParser().ParseUnverified(token, &PlayerClaims{})
			if err != nil {
				t.Fatalf("ParseUnverified: %v", err)
			}
			body := parsed.Claims.(*PlayerClaims)
			if got := body.ExpiresAt.Time.Sub(issuedAt); got != tt.want {
				t.Errorf("lifetime = %v, want %v", got, tt.want)
			}
			if body.Subject != "user-3" || body.Type != string(TokenTypeAccess) {
				t.Errorf("subject/type = %q/%q", body.Subject, body.Type)
			}
		})
	}

	if _, err := svc.IssueAccessTokenFor("", time.Hour); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty user error = %v", err)
	}
}

// === Validation ===

func TestParseTokenRejects(t *testing.T) {
	svc := newService(t)
	other := newService(t)
	otherIssuer := NewTokenService(svc.keyManager, TokenServiceConfig{Issuer: "someone-else"})

	expired := NewTokenService(svc.keyManager, TokenServiceConfig{Issuer: "player-test", AccessTokenExpiry: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }

	foreign, _ := other.IssueAccessToken("user-1")
	wrongIssuer, _ := otherIssuer.IssueAccessToken("user-1")
	stale, _ := expired.IssueAccessToken("user-1")

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"foreign key", foreign, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, ErrInvalidIssuer},
		{"expired", stale, ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ParseToken(tt.token); !errors.Is(err, tt.want) {
				t.Errorf("ParseToken() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// === Keys ===

func TestInitializeFromPEM(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	pemText := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))

	km := NewKeyManager(nil)
	if err := km.Initialize(KeySource{PrivateKeyPEM: pemText}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !km.PublicKey().Equal(&key.PublicKey) {
		t.Error("public key not derived from the private key")
	}
	if km.KeyID() == "" {
		t.Error("expected a key id")
	}
	if km.Ephemeral() {
		t.Error("PEM keys reported as ephemeral")
	}

	if err := NewKeyManager(nil).Initialize(KeySource{PrivateKeyPEM: "nope"}); !errors.Is(err, ErrInvalidKeyFormat) {
		t.Errorf("expected ErrInvalidKeyFormat, got %v", err)
	}
}

func TestUnconfiguredKeysAreEphemeral(t *testing.T) {
	if !newService(t).keyManager.Ephemeral() {
		t.Error("generated keys not reported as ephemeral")
	}
}

func TestDevKeysPersist(t *testing.T) {
	dir := t.TempDir()

	first := NewKeyManager(nil)
	if err := first.Initialize(KeySource{DevKeyDir: dir}); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "private.pem")); err != nil {
		t.Fatalf("private key not written: %v", err)
	}

	second := NewKeyManager(nil)
	if err := second.Initialize(KeySource{DevKeyDir: dir}); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if first.KeyID() != second.KeyID() {
		t.Errorf("key id changed across restarts: %s -> %s", first.KeyID(), second.KeyID())
	}

	jwks := second.GetJWKS()
	if len(jwks.Keys) != 1 || jwks.Keys[0].Kid != second.KeyID() || jwks.Keys[0].E != "AQAB" {
		t.Errorf("unexpected JWKS: %+v", jwks)
	}
}
