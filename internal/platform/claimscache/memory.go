// Package claimscache provides the ClaimsStore backends: an expiring LRU in
// process memory and a shared Redis store for multi-instance deployments.
package claimscache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"go.player.tech/internal/platform/authorization"
)

// Default sizing
const (
	DefaultMaxEntries = 10000
	DefaultTTL        = 15 * time.Minute
)

// MemoryStore is a process-local claims cache with LRU eviction and a TTL.
type MemoryStore struct {
	cache *lru.LRU[string, *authorization.Claims]
}

var _ authorization.ClaimsStore = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory store. Non-positive values use the
// defaults.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		cache: lru.NewLRU[string, *authorization.Claims](maxEntries, nil, ttl),
	}
}

// Name labels the store in metrics.
func (s *MemoryStore) Name() string { return "memory" }

// Get returns cached claims for userID.
func (s *MemoryStore) Get(_ context.Context, userID string) (*authorization.Claims, bool, error) {
	claims, ok := s.cache.Get(userID)
	return claims, ok, nil
}

// Set caches claims under their user id.
func (s *MemoryStore) Set(_ context.Context, claims *authorization.Claims) error {
	if claims == nil {
		return ErrNilClaims
	}
	s.cache.Add(claims.UserID, claims)
	return nil
}

// Evict removes userIDs from the cache.
func (s *MemoryStore) Evict(_ context.Context, userIDs ...string) error {
	for _, id := range userIDs {
		s.cache.Remove(id)
	}
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
