package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrInvalidKeyFormat = errors.New("invalid key format")
)

// KeySource lists where signing keys may come from, in order of preference.
type KeySource struct {
	// PrivateKeyPEM is a PEM private key, typically read from the secrets
	// provider. The public key is derived from it.
	PrivateKeyPEM string

	// PrivateKeyPath and PublicKeyPath point at PEM files.
	PrivateKeyPath string
	PublicKeyPath  string

	// DevKeyDir is used in dev mode; keys are generated there on first start.
	DevKeyDir string
}

// KeyManager manages the RSA key pair that signs Player tokens
type KeyManager struct {
	mu         sync.RWMutex
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	keyID      string
	ephemeral  bool
	logger     *slog.Logger
}

// NewKeyManager creates a new key manager
func NewKeyManager(logger *slog.Logger) *KeyManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyManager{logger: logger}
}

// Initialize loads keys from the first usable source, falling back to an
// ephemeral pair when none is configured.
func (km *KeyManager) Initialize(src KeySource) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	if src.PrivateKeyPEM != "" {
		if err := km.loadPEM([]byte(src.PrivateKeyPEM)); err != nil {
			return fmt.Errorf("signing key from secrets: %w", err)
		}
		km.logger.Info("Loaded JWT signing key from secrets", "keyId", km.keyID)
		return nil
	}

	if src.PrivateKeyPath != "" && src.PublicKeyPath != "" {
		if err := km.loadFromFiles(src.PrivateKeyPath, src.PublicKeyPath); err != nil {
			return fmt.Errorf("signing key from files: %w", err)
		}
		km.logger.Info("Loaded JWT keys from configured paths", "keyId", km.keyID)
		return nil
	}

	if src.DevKeyDir != "" {
		privPath := filepath.Join(src.DevKeyDir, "private.pem")
		pubPath := filepath.Join(src.DevKeyDir, "public.pem")

		if err := km.loadFromFiles(privPath, pubPath); err == nil {
			km.logger.Info("Loaded JWT keys from dev directory", "keyId", km.keyID, "dir", src.DevKeyDir)
			return nil
		}

		km.logger.Info("Generating new JWT keys for development", "dir", src.DevKeyDir)
		if err := km.generateAndSave(src.DevKeyDir); err != nil {
			return fmt.Errorf("failed to generate dev keys: %w", err)
		}
		km.logger.Info("Generated new JWT keys", "keyId", km.keyID)
		return nil
	}

	km.logger.Warn("Generating ephemeral JWT keys (tokens will not survive a restart)")
	if err := km.generate(); err != nil {
		return err
	}
	km.ephemeral = true
	return nil
}

// Ephemeral reports whether the keys were generated in memory, so no other
// process can verify what they sign.
func (km *KeyManager) Ephemeral() bool {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.ephemeral
}

func parsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidKeyFormat
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrInvalidKeyFormat
	}
	return rsaKey, nil
}

func (km *KeyManager) loadPEM(data []byte) error {
	privateKey, err := parsePrivateKey(data)
	if err != nil {
		return err
	}
	km.set(privateKey, &privateKey.PublicKey)
	return nil
}

// loadFromFiles loads keys from PEM files
func (km *KeyManager) loadFromFiles(privateKeyPath, publicKeyPath string) error {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read private key: %w", err)
	}
	privateKey, err := parsePrivateKey(privPEM)
	if err != nil {
		return err
	}

	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}
	block, _ := pem.Decode(pubPEM)
	if block == nil {
		return ErrInvalidKeyFormat
	}
	pubInterface, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}
	publicKey, ok := pubInterface.(*rsa.PublicKey)
	if !ok {
		return ErrInvalidKeyFormat
	}
	if !publicKey.Equal(&privateKey.PublicKey) {
		return fmt.Errorf("public key does not match private key: %w", ErrInvalidKeyFormat)
	}

	km.set(privateKey, publicKey)
	return nil
}

func (km *KeyManager) set(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) {
	km.privateKey = privateKey
	km.publicKey = publicKey
	km.keyID = keyIDFor(publicKey)
}

// generate creates a new RSA key pair
func (km *KeyManager) generate() error {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return fmt.Errorf("failed to generate RSA key: %w", err)
	}
	km.set(privateKey, &privateKey.PublicKey)
	return nil
}

// generateAndSave generates keys and saves them to the specified directory
func (km *KeyManager) generateAndSave(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := km.generate(); err != nil {
		return err
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(km.privateKey),
	})
	if err := os.WriteFile(filepath.Join(dir, "private.pem"), privPEM, 0600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	pubBytes, err := x509.MarshalPKIXPublicKey(km.publicKey)
	if err != nil {
		return fmt.Errorf("failed to marshal public key: %w", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	if err := os.WriteFile(filepath.Join(dir, "public.pem"), pubPEM, 0644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}

	return nil
}

// keyIDFor derives a stable key id from the public key
func keyIDFor(key *rsa.PublicKey) string {
	pubBytes, _ := x509.MarshalPKIXPublicKey(key)
	hash := sha256.Sum256(pubBytes)
	return base64.RawURLEncoding.EncodeToString(hash[:8])
}

// PrivateKey returns the private key for signing
func (km *KeyManager) PrivateKey() *rsa.PrivateKey {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.privateKey
}

// PublicKey returns the public key for verification
func (km *KeyManager) PublicKey() *rsa.PublicKey {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.publicKey
}

// KeyID returns the key ID
func (km *KeyManager) KeyID() string {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.keyID
}

// JWKS represents a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// GetJWKS returns the JWKS downstream services use to verify claims tokens
func (km *KeyManager) GetJWKS() *JWKS {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if km.publicKey == nil {
		return &JWKS{Keys: []JWK{}}
	}

	return &JWKS{
		Keys: []JWK{
			{
				Kty: "RSA",
				Alg: "RS256",
				Use: "sig",
				Kid: km.keyID,
				N:   base64.RawURLEncoding.EncodeToString(km.publicKey.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(exponentBytes(km.publicKey.E)),
			},
		},
	}
}

// exponentBytes encodes the RSA exponent big-endian without leading zeros
func exponentBytes(e int) []byte {
	b := []byte{byte(e >> 24), byte(e >> 16), byte(e >> 8), byte(e)}
	for len(b) > 1 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
