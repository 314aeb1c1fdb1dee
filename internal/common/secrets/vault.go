package secrets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// defaultVaultField is read when a Ref names no field.
const defaultVaultField = "value"

// VaultProvider reads KV v2 secrets under one mount and base path.
type VaultProvider struct {
	kv   *vault.KVv2
	base string
}

// NewVaultProvider connects to cfg.VaultAddr. VaultPath is "mount/path",
// with an optional "data/" segment as written in Vault policies:
// "secret/data/player" and "secret/player" are the same location.
func NewVaultProvider(cfg Config) (*VaultProvider, error) {
	if cfg.VaultAddr == "" {
		return nil, fmt.Errorf("%w: vault address is required", ErrProviderError)
	}

	vc := vault.DefaultConfig()
	vc.Address = cfg.VaultAddr
	client, err := vault.NewClient(vc)
	if err != nil {
		return nil, fmt.Errorf("create Vault client: %w", err)
	}
	if cfg.VaultToken != "" {
		client.SetToken(cfg.VaultToken)
	}
	if cfg.VaultNamespace != "" {
		client.SetNamespace(cfg.VaultNamespace)
	}

	mount, base := splitVaultPath(cfg.VaultPath)
	return &VaultProvider{kv: client.KVv2(mount), base: base}, nil
}

func splitVaultPath(path string) (mount, base string) {
	path = strings.Trim(path, "/")
	if path == "" {
		return "secret", "player"
	}
	mount, base, _ = strings.Cut(path, "/")
	base = strings.TrimPrefix(base, "data/")
	if base == "data" {
		base = ""
	}
	return mount, base
}

func (p *VaultProvider) Get(ctx context.Context, key string) (string, error) {
	ref, err := ParseRef(key)
	if err != nil {
		return "", err
	}
	path := ref.Name
	if p.base != "" {
		path = p.base + "/" + ref.Name
	}

	var secret *vault.KVSecret
	if ref.Version != "" {
		v, convErr := strconv.Atoi(ref.Version)
		if convErr != nil {
			return "", fmt.Errorf("%w: vault version %q is not a number", ErrProviderError, ref.Version)
		}
		secret, err = p.kv.GetVersion(ctx, path, v)
	} else {
		secret, err = p.kv.Get(ctx, path)
	}
	if errors.Is(err, vault.ErrSecretNotFound) {
		return "", ErrSecretNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderError, err)
	}
	if secret == nil || secret.Data == nil {
		return "", ErrSecretNotFound
	}

	field := ref.Field
	if field == "" {
		field = defaultVaultField
	}
	return stringField(secret.Data, field)
}

func (p *VaultProvider) Name() string { return "vault" }
