package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go.player.tech/internal/platform/authorization"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidIssuer    = errors.New("invalid issuer")
	ErrInvalidTokenType = errors.New("invalid token type")
)

// TokenType identifies the type of token
type TokenType string

const (
	// TokenTypeAccess identifies the caller only; permissions are resolved
	// server side on every request.
	TokenTypeAccess TokenType = "ACCESS"

	// TokenTypeClaims additionally carries a snapshot of the caller's
	// materialized claims for downstream services.
	TokenTypeClaims TokenType = "CLAIMS"
)

// TeamClaim is the wire form of authorization.TeamClaim.
type TeamClaim struct {
	ViewID      string                           `json:"viewId"`
	TeamID      string                           `json:"teamId"`
	IsPrimary   bool                             `json:"isPrimary"`
	Permissions []authorization.ScopedPermission `json:"permissions"`
}

// PlayerClaims is the JWT body issued and accepted by the token service.
type PlayerClaims struct {
	jwt.RegisteredClaims
	Type  string      `json:"type"`
	Perms []string    `json:"perms,omitempty"`
	Teams []TeamClaim `json:"teams,omitempty"`
}

// Principal returns the user id the token was issued to.
func (c *PlayerClaims) Principal() string {
	return c.Subject
}

// Claims rebuilds the materialized claims carried by a claims token.
// Access tokens carry none and return nil.
func (c *PlayerClaims) Claims() *authorization.Claims {
	if c.Type != string(TokenTypeClaims) {
		return nil
	}
	out := &authorization.Claims{
		UserID:            c.Subject,
		SystemPermissions: c.Perms,
		Teams:             make([]authorization.TeamClaim, 0, len(c.Teams)),
	}
	if c.IssuedAt != nil {
		out.MaterializedAt = c.IssuedAt.Time
	}
	for _, t := range c.Teams {
		out.Teams = append(out.Teams, authorization.TeamClaim{
			ViewID:      t.ViewID,
			TeamID:      t.TeamID,
			IsPrimary:   t.IsPrimary,
			Permissions: t.Permissions,
		})
	}
	return out
}

// TokenService handles JWT token generation and validation
type TokenService struct {
	keyManager        *KeyManager
	issuer            string
	accessTokenExpiry time.Duration
	claimsTokenExpiry time.Duration
	now               func() time.Time
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	Issuer            string
	AccessTokenExpiry time.Duration
	ClaimsTokenExpiry time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(keyManager *KeyManager, cfg TokenServiceConfig) *TokenService {
	if cfg.AccessTokenExpiry <= 0 {
		cfg.AccessTokenExpiry = time.Hour
	}
	if cfg.ClaimsTokenExpiry <= 0 {
		cfg.ClaimsTokenExpiry = 5 * time.Minute
	}
	return &TokenService{
		keyManager:        keyManager,
		issuer:            cfg.Issuer,
		accessTokenExpiry: cfg.AccessTokenExpiry,
		claimsTokenExpiry: cfg.ClaimsTokenExpiry,
		now:               time.Now,
	}
}

// Issuer returns the configured issuer.
func (s *TokenService) Issuer() string {
	return s.issuer
}

// ClaimsTokenExpiry returns the lifetime of issued claims tokens.
func (s *TokenService) ClaimsTokenExpiry() time.Duration {
	return s.claimsTokenExpiry
}

// IssueAccessToken creates an identity-only token for userID.
func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.IssueAccessTokenFor(userID, s.accessTokenExpiry)
}

// IssueAccessTokenFor creates an access token valid for ttl, or for the
// configured expiry when ttl is not positive.
func (s *TokenService) IssueAccessTokenFor(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", ErrInvalidToken
	}
	if ttl <= 0 {
		ttl = s.accessTokenExpiry
	}
	now := s.now()
	claims := PlayerClaims{
		RegisteredClaims: s.registered(userID, now, ttl),
		Type:             string(TokenTypeAccess),
	}
	return s.signToken(claims)
}

// IssueClaimsToken creates a short-lived token carrying the materialized
// claims in their tagged form.
func (s *TokenService) IssueClaimsToken(claims *authorization.Claims) (string, error) {
	if claims == nil || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	now := s.now()
	body := PlayerClaims{
		RegisteredClaims: s.registered(claims.UserID, now, s.claimsTokenExpiry),
		Type:             string(TokenTypeClaims),
		Perms:            claims.SystemPermissions,
		Teams:            make([]TeamClaim, 0, len(claims.Teams)),
	}
	for _, t := range claims.Teams {
		body.Teams = append(body.Teams, TeamClaim{
			ViewID:      t.ViewID,
			TeamID:      t.TeamID,
			IsPrimary:   t.IsPrimary,
			Permissions: t.Permissions,
		})
	}
	return s.signToken(body)
}

func (s *TokenService) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// signToken signs claims with the RSA private key
func (s *TokenService) signToken(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyManager.KeyID()

	return token.SignedString(s.keyManager.PrivateKey())
}

// ParseToken validates signature, expiry and issuer and returns the body.
func (s *TokenService) ParseToken(tokenString string) (*PlayerClaims, error) {
	claims := &PlayerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return s.keyManager.PublicKey(), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuedAt())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != s.issuer {
		return nil, ErrInvalidIssuer
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	switch TokenType(claims.Type) {
	case TokenTypeAccess, TokenTypeClaims:
	default:
		return nil, ErrInvalidTokenType
	}

	return claims, nil
}
