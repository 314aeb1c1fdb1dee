package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MongoDB.Database != "player" {
		t.Errorf("database = %q, want player", cfg.MongoDB.Database)
	}
	if cfg.Roles.DefaultTeamRole != "Member" || cfg.Roles.ViewCreatorTeamRole != "View Admin" {
		t.Errorf("unexpected role defaults: %+v", cfg.Roles)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_TEAM_ROLE", "Crew")
	t.Setenv("CLAIMS_CACHE_BACKEND", "redis")
	t.Setenv("CLAIMS_CACHE_TTL", "2m")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Roles.DefaultTeamRole != "Crew" {
		t.Errorf("default team role = %q", cfg.Roles.DefaultTeamRole)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("unparseable int should keep default, got %d", cfg.Redis.DB)
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, `
[mongodb]
database = "tenant_a"

[roles]
view_creator_team_role = "Owner"

[cache]
ttl = "30s"

[auth]
claims_token_expiry = "90s"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.MongoDB.Database != "tenant_a" {
		t.Errorf("database = %q", cfg.MongoDB.Database)
	}
	if cfg.Roles.ViewCreatorTeamRole != "Owner" {
		t.Errorf("view creator role = %q", cfg.Roles.ViewCreatorTeamRole)
	}
	if cfg.Roles.DefaultTeamRole != "Member" {
		t.Errorf("unset keys should keep defaults, got %q", cfg.Roles.DefaultTeamRole)
	}
	if cfg.Cache.TTL != 30*time.Second || cfg.Auth.ClaimsTokenExpiry != 90*time.Second {
		t.Errorf("durations not applied: cache=%v claims=%v", cfg.Cache.TTL, cfg.Auth.ClaimsTokenExpiry)
	}
}

func TestLoadFromFileRejectsBadDuration(t *testing.T) {
	path := writeFile(t, "[cache]\nttl = \"soon\"\n")
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected an error for an invalid duration")
	}
}

func TestLoadWithFileEnvWins(t *testing.T) {
	path := writeFile(t, "[mongodb]\ndatabase = \"from_file\"\n[http]\nport = 7000\n")
	t.Setenv("PLAYER_CONFIG", path)
	t.Setenv("MONGODB_DATABASE", "from_env")

	cfg, err := LoadWithFile()
	if err != nil {
		t.Fatalf("LoadWithFile: %v", err)
	}
	if cfg.MongoDB.Database != "from_env" {
		t.Errorf("database = %q, want from_env", cfg.MongoDB.Database)
	}
	if cfg.HTTP.Port != 7000 {
		t.Errorf("port = %d, want 7000 from file", cfg.HTTP.Port)
	}
}

func TestWriteExampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := WriteExampleConfig(path); err != nil {
		t.Fatalf("WriteExampleConfig: %v", err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("example config must parse: %v", err)
	}
	if cfg.Events.StreamName != "PLAYER_EVENTS" {
		t.Errorf("stream = %q", cfg.Events.StreamName)
	}
}
