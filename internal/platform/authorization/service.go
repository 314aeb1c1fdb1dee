package authorization

import (
	"context"
	"fmt"
	"log/slog"

	"go.player.tech/internal/common/metrics"
	"go.player.tech/internal/platform/common"
)

// ClaimsStore caches materialized Claims by user id.
type ClaimsStore interface {
	// Get returns the cached claims, or false when absent or expired.
	Get(ctx context.Context, userID string) (*Claims, bool, error)
	Set(ctx context.Context, claims *Claims) error
	Evict(ctx context.Context, userIDs ...string) error
	// Name labels the store in metrics.
	Name() string
}

// Materializing computes claims from source data.
type Materializing interface {
	Materialize(ctx context.Context, userID string) (*Claims, error)
}

// ClaimsProvider serves claims from a ClaimsStore, materializing on a miss.
// A store failure degrades to materializing on every call.
type ClaimsProvider struct {
	store        ClaimsStore
	materializer Materializing
	logger       *slog.Logger
}

// NewClaimsProvider creates a new claims provider. store may be nil to
// disable caching.
func NewClaimsProvider(store ClaimsStore, materializer Materializing, logger *slog.Logger) *ClaimsProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClaimsProvider{store: store, materializer: materializer, logger: logger}
}

// Claims returns the claims of userID.
func (p *ClaimsProvider) Claims(ctx context.Context, userID string) (*Claims, error) {
	if p.store != nil {
		claims, ok, err := p.store.Get(ctx, userID)
		switch {
		case err != nil:
			metrics.ClaimsCacheRequests.WithLabelValues(p.store.Name(), "error").Inc()
			p.logger.WarnContext(ctx, "Claims cache read failed", "userId", userID, "error", err)
		case ok:
			metrics.ClaimsCacheRequests.WithLabelValues(p.store.Name(), "hit").Inc()
			return claims, nil
		default:
			metrics.ClaimsCacheRequests.WithLabelValues(p.store.Name(), "miss").Inc()
		}
	}

	claims, err := p.materializer.Materialize(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.store.Set(ctx, claims); err != nil {
			p.logger.WarnContext(ctx, "Claims cache write failed", "userId", userID, "error", err)
		}
	}
	return claims, nil
}

// Evict drops cached claims for userIDs.
func (p *ClaimsProvider) Evict(ctx context.Context, userIDs ...string) error {
	if p.store == nil || len(userIDs) == 0 {
		return nil
	}
	if err := p.store.Evict(ctx, userIDs...); err != nil {
		return fmt.Errorf("evict claims: %w", err)
	}
	metrics.ClaimsEvictions.WithLabelValues(p.store.Name()).Add(float64(len(userIDs)))
	return nil
}

// Service answers authorization questions for a user id.
type Service struct {
	claims *ClaimsProvider
	engine *Engine
}

// NewService creates a new authorization service.
func NewService(claims *ClaimsProvider, engine *Engine) *Service {
	return &Service{claims: claims, engine: engine}
}

// Claims returns the materialized claims of userID.
func (s *Service) Claims(ctx context.Context, userID string) (*Claims, error) {
	return s.claims.Claims(ctx, userID)
}

// Authorize reports whether userID satisfies req. The error is non-nil only
// when claims could not be produced at all.
func (s *Service) Authorize(ctx context.Context, userID string, req Requirement) (bool, error) {
	claims, err := s.claims.Claims(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.engine.Authorize(ctx, claims, req), nil
}

// Require returns a Forbidden error unless userID satisfies req.
func (s *Service) Require(ctx context.Context, userID string, req Requirement) *common.UseCaseError {
	allowed, err := s.Authorize(ctx, userID, req)
	if err != nil {
		return common.InternalError("CLAIMS_UNAVAILABLE", "failed to load permissions", map[string]any{"error": err.Error()})
	}
	if !allowed {
		details := map[string]any{"userId": userID}
		if req.Resource != nil {
			details["resource"] = req.Resource.Kind
			details["resourceId"] = req.Resource.ID
		}
		return common.ForbiddenError(common.ErrCodeAccessDenied, "access denied", details)
	}
	return nil
}

// Evict drops cached claims for userIDs.
func (s *Service) Evict(ctx context.Context, userIDs ...string) error {
	return s.claims.Evict(ctx, userIDs...)
}
