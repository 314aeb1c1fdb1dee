package claimscache

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"go.player.tech/internal/common/metrics"
	"go.player.tech/internal/platform/authorization"
)

// BreakerSettings tunes BreakerStore.
type BreakerSettings struct {
	// MinRequests before the failure ratio is considered
	MinRequests uint32
	// FailureRatio that trips the breaker
	FailureRatio float64
	// Interval over which counts are kept while closed
	Interval time.Duration
	// OpenTimeout before a half-open trial call
	OpenTimeout time.Duration
}

// DefaultBreakerSettings returns the settings used by New.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  10,
		FailureRatio: 0.5,
		Interval:     30 * time.Second,
		OpenTimeout:  10 * time.Second,
	}
}

// BreakerStore guards a remote store with a circuit breaker. While open,
// reads and writes fail fast and the provider materializes directly.
// Evictions always reach the inner store: skipping one would leave stale
// claims behind once the store recovers.
type BreakerStore struct {
	inner   authorization.ClaimsStore
	breaker *gobreaker.CircuitBreaker
}

var _ authorization.ClaimsStore = (*BreakerStore)(nil)

// NewBreakerStore wraps inner.
func NewBreakerStore(inner authorization.ClaimsStore, settings BreakerSettings, logger *slog.Logger) *BreakerStore {
	if logger == nil {
		logger = slog.Default()
	}
	name := inner.Name()
	metrics.ClaimsCacheBreakerState.WithLabelValues(name).Set(0)

	return &BreakerStore{
		inner: inner,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "claims-" + name,
			MaxRequests: 1,
			Interval:    settings.Interval,
			Timeout:     settings.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < settings.MinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= settings.FailureRatio
			},
			OnStateChange: func(breaker string, from, to gobreaker.State) {
				logger.Warn("Claims cache circuit breaker state changed",
					"name", breaker,
					"from", from.String(),
					"to", to.String())

				var state float64
				switch to {
				case gobreaker.StateHalfOpen:
					state = 1
				case gobreaker.StateOpen:
					state = 2
				}
				metrics.ClaimsCacheBreakerState.WithLabelValues(name).Set(state)
			},
		}),
	}
}

// Name labels the store in metrics.
func (s *BreakerStore) Name() string { return s.inner.Name() }

// State reports the breaker state.
func (s *BreakerStore) State() gobreaker.State { return s.breaker.State() }

type lookup struct {
	claims *authorization.Claims
	ok     bool
}

func (s *BreakerStore) Get(ctx context.Context, userID string) (*authorization.Claims, bool, error) {
	v, err := s.breaker.Execute(func() (interface{}, error) {
		claims, ok, err := s.inner.Get(ctx, userID)
		return lookup{claims: claims, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	l := v.(lookup)
	return l.claims, l.ok, nil
}

func (s *BreakerStore) Set(ctx context.Context, claims *authorization.Claims) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.inner.Set(ctx, claims)
	})
	return err
}

func (s *BreakerStore) Evict(ctx context.Context, userIDs ...string) error {
	return s.inner.Evict(ctx, userIDs...)
}
