package secrets

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	encryptedFile = "secrets.enc"

	// Bound into every seal, so a file from another format does not open.
	encryptedAAD = "player-secrets/v1"
)

// EncryptedProvider keeps secrets in one AES-256-GCM sealed JSON file under
// dataDir. The whole file is decrypted once at startup.
type EncryptedProvider struct {
	aead cipher.AEAD
	path string

	mu      sync.RWMutex
	secrets map[string]string
}

var _ Writer = (*EncryptedProvider)(nil)

// NewEncryptedProvider opens or creates the store. encryptionKey is 32
// bytes, base64 encoded (see GenerateKey).
func NewEncryptedProvider(encryptionKey, dataDir string) (*EncryptedProvider, error) {
	if encryptionKey == "" {
		return nil, fmt.Errorf("%w: encryption key is required", ErrInvalidKey)
	}
	key, err := base64.StdEncoding.DecodeString(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64: %v", ErrInvalidKey, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: need 32 bytes, got %d", ErrInvalidKey, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create secrets directory: %w", err)
	}

	p := &EncryptedProvider{
		aead:    aead,
		path:    filepath.Join(dataDir, encryptedFile),
		secrets: make(map[string]string),
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

// Get supports #field refs into JSON values. Versions are not kept.
func (p *EncryptedProvider) Get(_ context.Context, key string) (string, error) {
	ref, err := ParseRef(key)
	if err != nil {
		return "", err
	}
	p.mu.RLock()
	value, ok := p.secrets[ref.Name]
	p.mu.RUnlock()
	if !ok {
		return "", ErrSecretNotFound
	}
	return extractField([]byte(value), ref.Field)
}

// Set stores value under key and rewrites the file.
func (p *EncryptedProvider) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.secrets[key] = value
	return p.save()
}

func (p *EncryptedProvider) Name() string { return "encrypted" }

func (p *EncryptedProvider) load() error {
	sealed, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read secrets file: %w", err)
	}

	n := p.aead.NonceSize()
	if len(sealed) < n {
		return errors.New("secrets file truncated")
	}
	plain, err := p.aead.Open(nil, sealed[:n], sealed[n:], []byte(encryptedAAD))
	if err != nil {
		return fmt.Errorf("decrypt secrets file (wrong key?): %w", err)
	}
	if err := json.Unmarshal(plain, &p.secrets); err != nil {
		return fmt.Errorf("parse secrets file: %w", err)
	}
	return nil
}

// save writes through a temp file and rename so readers never see a
// partial file.
func (p *EncryptedProvider) save() error {
	plain, err := json.Marshal(p.secrets)
	if err != nil {
		return err
	}
	nonce := make([]byte, p.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := p.aead.Seal(nonce, nonce, plain, []byte(encryptedAAD))

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("write secrets file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace secrets file: %w", err)
	}
	return nil
}

// GenerateKey returns a random 256-bit key, base64 encoded.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
