// Package secrets reads deployment secrets, such as the token signing key,
// from one of several backends.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Common errors
var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrInvalidKey     = errors.New("invalid encryption key")
	ErrProviderError  = errors.New("provider error")
)

// Provider reads secrets by key
type Provider interface {
	// Get retrieves a secret by key
	Get(ctx context.Context, key string) (string, error)

	// Name returns the provider name for logging
	Name() string
}

// Writer is implemented by providers that can store secrets
type Writer interface {
	Set(ctx context.Context, key, value string) error
}

// ProviderType represents the type of secret provider
type ProviderType string

const (
	ProviderTypeEncrypted ProviderType = "encrypted"
	ProviderTypeAWSSM     ProviderType = "aws-sm"
	ProviderTypeVault     ProviderType = "vault"
	ProviderTypeGCPSM     ProviderType = "gcp-sm"
	ProviderTypeEnv       ProviderType = "env"
)

// EnvPrefix is prepended to keys read by the env provider
const EnvPrefix = "PLAYER_SECRET_"

// Config holds configuration for the secrets provider
type Config struct {
	Provider ProviderType

	// Encrypted provider settings
	EncryptionKey string
	DataDir       string

	// AWS Secrets Manager settings
	AWSRegion    string
	AWSPrefix    string
	AWSEndpoint  string // For LocalStack
	AWSAccessKey string
	AWSSecretKey string

	// HashiCorp Vault settings
	VaultAddr      string
	VaultToken     string
	VaultPath      string
	VaultNamespace string

	// GCP Secret Manager settings
	GCPProject string
	GCPPrefix  string
}

// withEnvCredentials fills credentials that are never put in config files
func (c Config) withEnvCredentials() Config {
	if c.VaultToken == "" {
		c.VaultToken = os.Getenv("VAULT_TOKEN")
	}
	if c.AWSAccessKey == "" {
		c.AWSAccessKey = os.Getenv("PLAYER_SECRETS_AWS_ACCESS_KEY")
	}
	if c.AWSSecretKey == "" {
		c.AWSSecretKey = os.Getenv("PLAYER_SECRETS_AWS_SECRET_KEY")
	}
	if c.GCPProject == "" {
		c.GCPProject = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	return c
}

// NewProvider creates a new secret provider based on configuration
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	cfg = cfg.withEnvCredentials()

	switch ProviderType(strings.ToLower(string(cfg.Provider))) {
	case ProviderTypeEncrypted:
		return NewEncryptedProvider(cfg.EncryptionKey, cfg.DataDir)
	case ProviderTypeAWSSM:
		return NewAWSProvider(ctx, cfg)
	case ProviderTypeVault:
		return NewVaultProvider(cfg)
	case ProviderTypeGCPSM:
		return NewGCPProvider(ctx, cfg)
	case ProviderTypeEnv, "":
		return NewEnvProvider(EnvPrefix), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Provider)
	}
}

// Lookup reads an optional secret. An empty key or a missing secret
// returns "" with no error.
func Lookup(ctx context.Context, p Provider, key string) (string, error) {
	if key == "" || p == nil {
		return "", nil
	}
	value, err := p.Get(ctx, key)
	if errors.Is(err, ErrSecretNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read secret %q from %s: %w", key, p.Name(), err)
	}
	return value, nil
}

// EnvProvider reads secrets from environment variables
type EnvProvider struct {
	prefix string
}

// NewEnvProvider creates a new environment variable provider
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{prefix: prefix}
}

// Get reads prefix + key, upper-cased with dashes replaced by underscores.
// Values may contain literal "\n" sequences so PEM keys fit in one variable.
func (p *EnvProvider) Get(ctx context.Context, key string) (string, error) {
	envKey := p.prefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	value := os.Getenv(envKey)
	if value == "" {
		return "", ErrSecretNotFound
	}
	return strings.ReplaceAll(value, `\n`, "\n"), nil
}

// Name returns the provider name
func (p *EnvProvider) Name() string {
	return "env"
}
