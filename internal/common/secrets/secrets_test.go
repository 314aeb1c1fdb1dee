package secrets

import (
	"context"
	"errors"
	"testing"
)

func TestEnvProvider(t *testing.T) {
	t.Setenv("PLAYER_SECRET_JWT_SIGNING_KEY", `line1\nline2`)
	p := NewEnvProvider(EnvPrefix)

	got, err := p.Get(context.Background(), "jwt-signing-key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "line1\nline2" {
		t.Errorf("Get = %q, want escaped newlines expanded", got)
	}

	if _, err := p.Get(context.Background(), "missing"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestEncryptedProviderPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	p, err := NewEncryptedProvider(key, dir)
	if err != nil {
		t.Fatalf("NewEncryptedProvider: %v", err)
	}
	var w Writer = p
	if err := w.Set(ctx, "signing", "pem-bytes"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := NewEncryptedProvider(key, dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, "signing")
	if err != nil || got != "pem-bytes" {
		t.Errorf("Get = %q, %v", got, err)
	}

	otherKey, _ := GenerateKey()
	if _, err := NewEncryptedProvider(otherKey, dir); err == nil {
		t.Error("expected a decrypt failure with the wrong key")
	}
}

func TestEncryptedProviderRejectsBadKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not base64", "%%%"},
		{"short", "c2hvcnQ="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEncryptedProvider(tt.key, t.TempDir()); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("expected ErrInvalidKey, got %v", err)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	t.Setenv("PLAYER_SECRET_PRESENT", "yes")
	p, err := NewProvider(ctx, Config{})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "env" {
		t.Errorf("default provider = %s, want env", p.Name())
	}

	if v, err := Lookup(ctx, p, "present"); err != nil || v != "yes" {
		t.Errorf("Lookup(present) = %q, %v", v, err)
	}
	if v, err := Lookup(ctx, p, "absent"); err != nil || v != "" {
		t.Errorf("Lookup(absent) = %q, %v", v, err)
	}
	if v, err := Lookup(ctx, p, ""); err != nil || v != "" {
		t.Errorf("Lookup(empty key) = %q, %v", v, err)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "floppy"}); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

// === Refs ===

func TestParseRef(t *testing.T) {
	tests := []struct {
		key     string
		want    Ref
		wantErr bool
	}{
		{"jwt-signing-key", Ref{Name: "jwt-signing-key"}, false},
		{"jwt-signing-key@3", Ref{Name: "jwt-signing-key", Version: "3"}, false},
		{"keys#private_pem", Ref{Name: "keys", Field: "private_pem"}, false},
		{"keys@v2#private_pem", Ref{Name: "keys", Version: "v2", Field: "private_pem"}, false},
		{"@3", Ref{}, true},
		{"", Ref{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := ParseRef(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRef(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestExtractField(t *testing.T) {
	raw := []byte(`{"private_pem":"pem","rotations":3}`)

	if got, err := extractField(raw, ""); err != nil || got != string(raw) {
		t.Errorf("whole value = %q, %v", got, err)
	}
	if got, err := extractField(raw, "private_pem"); err != nil || got != "pem" {
		t.Errorf("field = %q, %v", got, err)
	}
	if _, err := extractField(raw, "public_pem"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("missing field: %v", err)
	}
	if _, err := extractField(raw, "rotations"); !errors.Is(err, ErrProviderError) {
		t.Errorf("non-string field: %v", err)
	}
	if _, err := extractField([]byte("plain"), "x"); !errors.Is(err, ErrProviderError) {
		t.Errorf("non-JSON secret: %v", err)
	}
}

func TestSplitVaultPath(t *testing.T) {
	tests := []struct {
		path, mount, base string
	}{
		{"", "secret", "player"},
		{"secret/data/player", "secret", "player"},
		{"secret/player", "secret", "player"},
		{"kv/data/teams/player/", "kv", "teams/player"},
		{"kv", "kv", ""},
		{"kv/data", "kv", ""},
	}
	for _, tt := range tests {
		mount, base := splitVaultPath(tt.path)
		if mount != tt.mount || base != tt.base {
			t.Errorf("splitVaultPath(%q) = %q, %q; want %q, %q", tt.path, mount, base, tt.mount, tt.base)
		}
	}
}

func TestGCPVersionName(t *testing.T) {
	p := &GCPProvider{project: "acme", prefix: "player-"}
	if got := p.versionName(Ref{Name: "jwt"}); got != "projects/acme/secrets/player-jwt/versions/latest" {
		t.Errorf("latest = %s", got)
	}
	if got := p.versionName(Ref{Name: "jwt", Version: "7"}); got != "projects/acme/secrets/player-jwt/versions/7" {
		t.Errorf("pinned = %s", got)
	}
}
