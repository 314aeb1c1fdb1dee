package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for Player
type Config struct {
	// HTTP server configuration
	HTTP HTTPConfig

	// MongoDB configuration
	MongoDB MongoDBConfig

	// Redis configuration (claims cache, leader election)
	Redis RedisConfig

	// Claims cache configuration
	Cache CacheConfig

	// Event bus configuration
	Events EventsConfig

	// Token configuration
	Auth AuthConfig

	// Built-in role names
	Roles RolesConfig

	// Secrets provider configuration
	Secrets SecretsConfig

	// Leader election configuration
	Leader LeaderConfig

	// Data directory for embedded services and dev keys
	DataDir string

	// Development mode
	DevMode bool
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port        int
	CORSOrigins []string

	// RequestsPerSecond limits each principal on /api; zero disables it
	RequestsPerSecond float64
	Burst             int
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	// Addr is host:port; empty disables Redis
	Addr     string
	Password string
	DB       int
}

// CacheConfig holds claims cache configuration
type CacheConfig struct {
	Backend    string // "memory", "redis", "none"
	MaxEntries int
	TTL        time.Duration
	KeyPrefix  string
}

// EventsConfig holds event bus configuration
type EventsConfig struct {
	Type string // "embedded", "nats", "memory"

	NATSURL      string
	DataDir      string
	StreamName   string
	SubjectRoot  string
	ConsumerName string
}

// AuthConfig holds token configuration
type AuthConfig struct {
	Issuer            string
	AccessTokenExpiry time.Duration
	ClaimsTokenExpiry time.Duration

	// SigningKeySecret names the secret holding the PEM signing key.
	// Empty falls back to key files, then to dev keys under DataDir.
	SigningKeySecret string
	PrivateKeyPath   string
	PublicKeyPath    string
}

// RolesConfig holds the names of the built-in team roles
type RolesConfig struct {
	// DefaultTeamRole is given to new teams without an explicit role
	DefaultTeamRole string

	// ViewCreatorTeamRole is given to the creator team of a new view
	ViewCreatorTeamRole string
}

// SecretsConfig holds secrets provider configuration
type SecretsConfig struct {
	Provider      string // "env", "encrypted", "aws-sm", "vault", "gcp-sm"
	EncryptionKey string
	DataDir       string

	AWSRegion   string
	AWSPrefix   string
	AWSEndpoint string

	VaultAddr      string
	VaultPath      string
	VaultNamespace string

	GCPProject string
	GCPPrefix  string
}

// LeaderConfig holds leader election configuration
type LeaderConfig struct {
	// Enabled controls whether startup jobs wait for leadership
	Enabled bool

	// InstanceID uniquely identifies this instance (defaults to HOSTNAME)
	InstanceID string

	// TTL is how long the lock is valid before expiring
	TTL time.Duration

	// RefreshInterval is how often to refresh the lock while primary
	RefreshInterval time.Duration
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := Defaults()
	applyEnv(cfg)
	return cfg, nil
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:4200"},
			Burst:       20,
		},
		MongoDB: MongoDBConfig{
			URI:      "mongodb://localhost:27017/?replicaSet=rs0&directConnection=true",
			Database: "player",
		},
		Cache: CacheConfig{
			Backend:    "memory",
			MaxEntries: 10000,
			TTL:        15 * time.Minute,
			KeyPrefix:  "player:claims:",
		},
		Events: EventsConfig{
			Type:        "embedded",
			NATSURL:     "nats://localhost:4222",
			DataDir:     "./data/nats",
			StreamName:  "PLAYER_EVENTS",
			SubjectRoot: "player.events",
		},
		Auth: AuthConfig{
			Issuer:            "player",
			AccessTokenExpiry: 1 * time.Hour,
			ClaimsTokenExpiry: 5 * time.Minute,
		},
		Roles: RolesConfig{
			DefaultTeamRole:     "Member",
			ViewCreatorTeamRole: "View Admin",
		},
		Secrets: SecretsConfig{
			Provider:  "env",
			DataDir:   "./data/secrets",
			AWSPrefix: "/player/",
			VaultPath: "secret/data/player",
			GCPPrefix: "player-",
		},
		Leader: LeaderConfig{
			TTL:             30 * time.Second,
			RefreshInterval: 10 * time.Second,
		},
		DataDir: "./data",
	}
}

// applyEnv overrides cfg with every environment variable that is set
func applyEnv(cfg *Config) {
	cfg.HTTP.Port = getEnvInt("HTTP_PORT", cfg.HTTP.Port)
	cfg.HTTP.CORSOrigins = getEnvSlice("CORS_ORIGINS", cfg.HTTP.CORSOrigins)
	cfg.HTTP.RequestsPerSecond = getEnvFloat("HTTP_RATE_LIMIT_RPS", cfg.HTTP.RequestsPerSecond)
	cfg.HTTP.Burst = getEnvInt("HTTP_RATE_LIMIT_BURST", cfg.HTTP.Burst)

	cfg.MongoDB.URI = getEnv("MONGODB_URI", cfg.MongoDB.URI)
	cfg.MongoDB.Database = getEnv("MONGODB_DATABASE", cfg.MongoDB.Database)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.Cache.Backend = getEnv("CLAIMS_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.MaxEntries = getEnvInt("CLAIMS_CACHE_MAX_ENTRIES", cfg.Cache.MaxEntries)
	cfg.Cache.TTL = getEnvDuration("CLAIMS_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.KeyPrefix = getEnv("CLAIMS_CACHE_KEY_PREFIX", cfg.Cache.KeyPrefix)

	cfg.Events.Type = getEnv("EVENTS_TYPE", cfg.Events.Type)
	cfg.Events.NATSURL = getEnv("NATS_URL", cfg.Events.NATSURL)
	cfg.Events.DataDir = getEnv("NATS_DATA_DIR", cfg.Events.DataDir)
	cfg.Events.StreamName = getEnv("EVENTS_STREAM", cfg.Events.StreamName)
	cfg.Events.SubjectRoot = getEnv("EVENTS_SUBJECT_ROOT", cfg.Events.SubjectRoot)
	cfg.Events.ConsumerName = getEnv("EVENTS_CONSUMER", cfg.Events.ConsumerName)

	cfg.Auth.Issuer = getEnv("JWT_ISSUER", cfg.Auth.Issuer)
	cfg.Auth.AccessTokenExpiry = getEnvDuration("JWT_ACCESS_TOKEN_EXPIRY", cfg.Auth.AccessTokenExpiry)
	cfg.Auth.ClaimsTokenExpiry = getEnvDuration("JWT_CLAIMS_TOKEN_EXPIRY", cfg.Auth.ClaimsTokenExpiry)
	cfg.Auth.SigningKeySecret = getEnv("JWT_SIGNING_KEY_SECRET", cfg.Auth.SigningKeySecret)
	cfg.Auth.PrivateKeyPath = getEnv("JWT_PRIVATE_KEY_PATH", cfg.Auth.PrivateKeyPath)
	cfg.Auth.PublicKeyPath = getEnv("JWT_PUBLIC_KEY_PATH", cfg.Auth.PublicKeyPath)

	cfg.Roles.DefaultTeamRole = getEnv("DEFAULT_TEAM_ROLE", cfg.Roles.DefaultTeamRole)
	cfg.Roles.ViewCreatorTeamRole = getEnv("VIEW_CREATOR_TEAM_ROLE", cfg.Roles.ViewCreatorTeamRole)

	cfg.Secrets.Provider = getEnv("SECRETS_PROVIDER", cfg.Secrets.Provider)
	cfg.Secrets.EncryptionKey = getEnv("SECRETS_ENCRYPTION_KEY", cfg.Secrets.EncryptionKey)
	cfg.Secrets.DataDir = getEnv("SECRETS_DATA_DIR", cfg.Secrets.DataDir)
	cfg.Secrets.AWSRegion = getEnv("AWS_REGION", cfg.Secrets.AWSRegion)
	cfg.Secrets.AWSPrefix = getEnv("SECRETS_AWS_PREFIX", cfg.Secrets.AWSPrefix)
	cfg.Secrets.AWSEndpoint = getEnv("SECRETS_AWS_ENDPOINT", cfg.Secrets.AWSEndpoint)
	cfg.Secrets.VaultAddr = getEnv("VAULT_ADDR", cfg.Secrets.VaultAddr)
	cfg.Secrets.VaultPath = getEnv("SECRETS_VAULT_PATH", cfg.Secrets.VaultPath)
	cfg.Secrets.VaultNamespace = getEnv("VAULT_NAMESPACE", cfg.Secrets.VaultNamespace)
	cfg.Secrets.GCPProject = getEnv("SECRETS_GCP_PROJECT", cfg.Secrets.GCPProject)
	cfg.Secrets.GCPPrefix = getEnv("SECRETS_GCP_PREFIX", cfg.Secrets.GCPPrefix)

	cfg.Leader.Enabled = getEnvBool("LEADER_ELECTION_ENABLED", cfg.Leader.Enabled)
	cfg.Leader.InstanceID = getEnv("HOSTNAME", cfg.Leader.InstanceID)
	cfg.Leader.TTL = getEnvDuration("LEADER_TTL", cfg.Leader.TTL)
	cfg.Leader.RefreshInterval = getEnvDuration("LEADER_REFRESH_INTERVAL", cfg.Leader.RefreshInterval)

	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.DevMode = getEnvBool("PLAYER_DEV", cfg.DevMode)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return defaultValue
}
