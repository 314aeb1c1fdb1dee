package claimscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go.player.tech/internal/platform/authorization"
)

// DefaultKeyPrefix namespaces claims keys in a shared Redis.
const DefaultKeyPrefix = "player:claims:"

// ErrNilClaims is returned when caching a nil Claims.
var ErrNilClaims = errors.New("claims cannot be nil")

// RedisStore shares materialized claims between instances. Entries are
// JSON documents under prefix+userID with a TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ authorization.ClaimsStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis backed store.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Name labels the store in metrics.
func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

// Get returns cached claims for userID. A document that no longer decodes
// is treated as a miss and removed.
func (s *RedisStore) Get(ctx context.Context, userID string) (*authorization.Claims, bool, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get claims %s: %w", userID, err)
	}

	var claims authorization.Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		s.client.Del(ctx, s.key(userID))
		return nil, false, nil
	}
	return &claims, true, nil
}

// Set caches claims under their user id.
func (s *RedisStore) Set(ctx context.Context, claims *authorization.Claims) error {
	if claims == nil {
		return ErrNilClaims
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("encode claims %s: %w", claims.UserID, err)
	}
	if err := s.client.Set(ctx, s.key(claims.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set claims %s: %w", claims.UserID, err)
	}
	return nil
}

// Evict deletes userIDs in one round trip.
func (s *RedisStore) Evict(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = s.key(id)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis evict claims: %w", err)
	}
	return nil
}
