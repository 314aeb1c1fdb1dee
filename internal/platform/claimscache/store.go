package claimscache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go.player.tech/internal/platform/authorization"
)

// Backend selects a store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendNone   Backend = "none"
)

// Config selects and sizes the claims store.
type Config struct {
	Backend    Backend
	MaxEntries int
	TTL        time.Duration
	KeyPrefix  string
}

// New builds the configured store. BackendNone returns a nil store, which
// disables caching. The redis backend requires a client.
func New(cfg Config, client *redis.Client) (authorization.ClaimsStore, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(cfg.MaxEntries, cfg.TTL), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("claims cache backend %q requires a redis client", cfg.Backend)
		}
		return NewBreakerStore(NewRedisStore(client, cfg.KeyPrefix, cfg.TTL), DefaultBreakerSettings(), nil), nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown claims cache backend %q", cfg.Backend)
	}
}
