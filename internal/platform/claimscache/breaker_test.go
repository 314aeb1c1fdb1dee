package claimscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.player.tech/internal/platform/authorization"
)

type flakyStore struct {
	err     error
	gets    int
	evicted []string
}

func (s *flakyStore) Name() string { return "flaky" }

func (s *flakyStore) Get(ctx context.Context, userID string) (*authorization.Claims, bool, error) {
	s.gets++
	if s.err != nil {
		return nil, false, s.err
	}
	return sampleClaims(userID), true, nil
}

func (s *flakyStore) Set(ctx context.Context, claims *authorization.Claims) error { return s.err }

func (s *flakyStore) Evict(ctx context.Context, userIDs ...string) error {
	s.evicted = append(s.evicted, userIDs...)
	return nil
}

func testBreakerSettings() BreakerSettings {
	return BreakerSettings{MinRequests: 3, FailureRatio: 0.5, Interval: time.Minute, OpenTimeout: time.Minute}
}

func TestBreakerStorePassesThrough(t *testing.T) {
	inner := &flakyStore{}
	s := NewBreakerStore(inner, testBreakerSettings(), nil)

	got, ok, err := s.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "flaky", s.Name())
}

func TestBreakerStoreTripsAndFailsFast(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{err: errors.New("connection refused")}
	s := NewBreakerStore(inner, testBreakerSettings(), nil)

	for i := 0; i < 3; i++ {
		_, _, err := s.Get(ctx, "u1")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, s.State())

	_, _, err := s.Get(ctx, "u1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.gets, "an open breaker must not reach the store")

	require.NoError(t, s.Evict(ctx, "u1", "u2"))
	assert.Equal(t, []string{"u1", "u2"}, inner.evicted, "evictions bypass the breaker")
}

func TestBreakerStoreDegradesProvider(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{err: errors.New("connection refused")}
	s := NewBreakerStore(inner, testBreakerSettings(), nil)

	materialized := 0
	provider := authorization.NewClaimsProvider(s, materializerFunc(func(ctx context.Context, userID string) (*authorization.Claims, error) {
		materialized++
		return sampleClaims(userID), nil
	}), nil)

	for i := 0; i < 5; i++ {
		claims, err := provider.Claims(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
	}
	assert.Equal(t, 5, materialized)
}

type materializerFunc func(ctx context.Context, userID string) (*authorization.Claims, error)

func (f materializerFunc) Materialize(ctx context.Context, userID string) (*authorization.Claims, error) {
	return f(ctx, userID)
}
