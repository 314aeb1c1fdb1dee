package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// TOMLConfig represents the TOML configuration file structure
type TOMLConfig struct {
	HTTP    TOMLHTTPConfig    `toml:"http"`
	MongoDB TOMLMongoDBConfig `toml:"mongodb"`
	Redis   TOMLRedisConfig   `toml:"redis"`
	Cache   TOMLCacheConfig   `toml:"cache"`
	Events  TOMLEventsConfig  `toml:"events"`
	Auth    TOMLAuthConfig    `toml:"auth"`
	Roles   TOMLRolesConfig   `toml:"roles"`
	Secrets TOMLSecretsConfig `toml:"secrets"`
	Leader  TOMLLeaderConfig  `toml:"leader"`
	DataDir string            `toml:"data_dir"`
	DevMode bool              `toml:"dev_mode"`
}

// TOMLHTTPConfig represents HTTP configuration in TOML
type TOMLHTTPConfig struct {
	Port              int      `toml:"port"`
	CORSOrigins       []string `toml:"cors_origins"`
	RequestsPerSecond float64  `toml:"rate_limit_rps"`
	Burst             int      `toml:"rate_limit_burst"`
}

// TOMLMongoDBConfig represents MongoDB configuration in TOML
type TOMLMongoDBConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// TOMLRedisConfig represents Redis configuration in TOML
type TOMLRedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// TOMLCacheConfig represents claims cache configuration in TOML
type TOMLCacheConfig struct {
	Backend    string `toml:"backend"`
	MaxEntries int    `toml:"max_entries"`
	TTL        string `toml:"ttl"`
	KeyPrefix  string `toml:"key_prefix"`
}

// TOMLEventsConfig represents event bus configuration in TOML
type TOMLEventsConfig struct {
	Type         string `toml:"type"`
	NATSURL      string `toml:"nats_url"`
	DataDir      string `toml:"data_dir"`
	StreamName   string `toml:"stream"`
	SubjectRoot  string `toml:"subject_root"`
	ConsumerName string `toml:"consumer"`
}

// TOMLAuthConfig represents token configuration in TOML
type TOMLAuthConfig struct {
	Issuer            string `toml:"issuer"`
	AccessTokenExpiry string `toml:"access_token_expiry"`
	ClaimsTokenExpiry string `toml:"claims_token_expiry"`
	SigningKeySecret  string `toml:"signing_key_secret"`
	PrivateKeyPath    string `toml:"private_key_path"`
	PublicKeyPath     string `toml:"public_key_path"`
}

// TOMLRolesConfig represents built-in role names in TOML
type TOMLRolesConfig struct {
	DefaultTeamRole     string `toml:"default_team_role"`
	ViewCreatorTeamRole string `toml:"view_creator_team_role"`
}

// TOMLSecretsConfig represents secrets provider configuration in TOML
type TOMLSecretsConfig struct {
	Provider      string `toml:"provider"`
	EncryptionKey string `toml:"encryption_key"`
	DataDir       string `toml:"data_dir"`

	// AWS
	AWSRegion   string `toml:"aws_region"`
	AWSPrefix   string `toml:"aws_prefix"`
	AWSEndpoint string `toml:"aws_endpoint"`

	// Vault
	VaultAddr      string `toml:"vault_addr"`
	VaultPath      string `toml:"vault_path"`
	VaultNamespace string `toml:"vault_namespace"`

	// GCP
	GCPProject string `toml:"gcp_project"`
	GCPPrefix  string `toml:"gcp_prefix"`
}

// TOMLLeaderConfig represents leader election configuration in TOML
type TOMLLeaderConfig struct {
	Enabled         bool   `toml:"enabled"`
	InstanceID      string `toml:"instance_id"`
	TTL             string `toml:"ttl"`
	RefreshInterval string `toml:"refresh_interval"`
}

// ConfigPaths lists the paths to search for config files
var ConfigPaths = []string{
	"config.toml",
	"player.toml",
	"./config/config.toml",
	"./config/player.toml",
	"/etc/player/config.toml",
}

// LoadFromFile loads configuration from a TOML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	var tomlCfg TOMLConfig

	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Defaults()
	if err := overlayTOML(cfg, &tomlCfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithFile loads configuration from file first, then overrides with env vars
func LoadWithFile() (*Config, error) {
	configPath := os.Getenv("PLAYER_CONFIG")
	if configPath == "" {
		for _, path := range ConfigPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
	}

	if configPath == "" {
		return Load()
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	applyEnv(cfg)
	return cfg, nil
}

// overlayTOML copies every non-zero value of tc onto cfg
func overlayTOML(cfg *Config, tc *TOMLConfig) error {
	setString(&cfg.MongoDB.URI, tc.MongoDB.URI)
	setString(&cfg.MongoDB.Database, tc.MongoDB.Database)

	setInt(&cfg.HTTP.Port, tc.HTTP.Port)
	if len(tc.HTTP.CORSOrigins) > 0 {
		cfg.HTTP.CORSOrigins = tc.HTTP.CORSOrigins
	}
	if tc.HTTP.RequestsPerSecond > 0 {
		cfg.HTTP.RequestsPerSecond = tc.HTTP.RequestsPerSecond
	}
	setInt(&cfg.HTTP.Burst, tc.HTTP.Burst)

	setString(&cfg.Redis.Addr, tc.Redis.Addr)
	setString(&cfg.Redis.Password, tc.Redis.Password)
	setInt(&cfg.Redis.DB, tc.Redis.DB)

	setString(&cfg.Cache.Backend, tc.Cache.Backend)
	setInt(&cfg.Cache.MaxEntries, tc.Cache.MaxEntries)
	setString(&cfg.Cache.KeyPrefix, tc.Cache.KeyPrefix)

	setString(&cfg.Events.Type, tc.Events.Type)
	setString(&cfg.Events.NATSURL, tc.Events.NATSURL)
	setString(&cfg.Events.DataDir, tc.Events.DataDir)
	setString(&cfg.Events.StreamName, tc.Events.StreamName)
	setString(&cfg.Events.SubjectRoot, tc.Events.SubjectRoot)
	setString(&cfg.Events.ConsumerName, tc.Events.ConsumerName)

	setString(&cfg.Auth.Issuer, tc.Auth.Issuer)
	setString(&cfg.Auth.SigningKeySecret, tc.Auth.SigningKeySecret)
	setString(&cfg.Auth.PrivateKeyPath, tc.Auth.PrivateKeyPath)
	setString(&cfg.Auth.PublicKeyPath, tc.Auth.PublicKeyPath)

	setString(&cfg.Roles.DefaultTeamRole, tc.Roles.DefaultTeamRole)
	setString(&cfg.Roles.ViewCreatorTeamRole, tc.Roles.ViewCreatorTeamRole)

	setString(&cfg.Secrets.Provider, tc.Secrets.Provider)
	setString(&cfg.Secrets.EncryptionKey, tc.Secrets.EncryptionKey)
	setString(&cfg.Secrets.DataDir, tc.Secrets.DataDir)
	setString(&cfg.Secrets.AWSRegion, tc.Secrets.AWSRegion)
	setString(&cfg.Secrets.AWSPrefix, tc.Secrets.AWSPrefix)
	setString(&cfg.Secrets.AWSEndpoint, tc.Secrets.AWSEndpoint)
	setString(&cfg.Secrets.VaultAddr, tc.Secrets.VaultAddr)
	setString(&cfg.Secrets.VaultPath, tc.Secrets.VaultPath)
	setString(&cfg.Secrets.VaultNamespace, tc.Secrets.VaultNamespace)
	setString(&cfg.Secrets.GCPProject, tc.Secrets.GCPProject)
	setString(&cfg.Secrets.GCPPrefix, tc.Secrets.GCPPrefix)

	if tc.Leader.Enabled {
		cfg.Leader.Enabled = true
	}
	setString(&cfg.Leader.InstanceID, tc.Leader.InstanceID)

	setString(&cfg.DataDir, tc.DataDir)
	if tc.DevMode {
		cfg.DevMode = true
	}

	durations := []struct {
		key   string
		value string
		dst   *time.Duration
	}{
		{"cache.ttl", tc.Cache.TTL, &cfg.Cache.TTL},
		{"auth.access_token_expiry", tc.Auth.AccessTokenExpiry, &cfg.Auth.AccessTokenExpiry},
		{"auth.claims_token_expiry", tc.Auth.ClaimsTokenExpiry, &cfg.Auth.ClaimsTokenExpiry},
		{"leader.ttl", tc.Leader.TTL, &cfg.Leader.TTL},
		{"leader.refresh_interval", tc.Leader.RefreshInterval, &cfg.Leader.RefreshInterval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// WriteExampleConfig writes an example configuration file
func WriteExampleConfig(path string) error {
	example := `# Player Configuration
# Environment variables override these settings

data_dir = "./data"
dev_mode = false

[http]
port = 8080
cors_origins = ["http://localhost:4200"]
rate_limit_rps = 0  # per principal, 0 disables
rate_limit_burst = 20

[mongodb]
uri = "mongodb://localhost:27017/?replicaSet=rs0&directConnection=true"
database = "player"

[redis]
addr = ""  # empty disables redis
password = ""
db = 0

[cache]
backend = "memory"  # memory, redis, or none
max_entries = 10000
ttl = "15m"
key_prefix = "player:claims:"

[events]
type = "embedded"  # embedded, nats, or memory
nats_url = "nats://localhost:4222"
data_dir = "./data/nats"
stream = "PLAYER_EVENTS"
subject_root = "player.events"
consumer = ""  # defaults to player-<instance id>

[auth]
issuer = "player"
access_token_expiry = "1h"
claims_token_expiry = "5m"
signing_key_secret = ""  # secret name holding a PEM private key
private_key_path = ""
public_key_path = ""

[roles]
default_team_role = "Member"
view_creator_team_role = "View Admin"

[secrets]
provider = "env"  # env, encrypted, aws-sm, vault, gcp-sm
encryption_key = ""
data_dir = "./data/secrets"
aws_region = ""
aws_prefix = "/player/"
aws_endpoint = ""
vault_addr = ""
vault_path = "secret/data/player"
vault_namespace = ""
gcp_project = ""
gcp_prefix = "player-"

[leader]
enabled = false
instance_id = ""
ttl = "30s"
refresh_interval = "10s"
`

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, []byte(example), 0644)
}
