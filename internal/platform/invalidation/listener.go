package invalidation

import (
	"context"
	"fmt"
	"log/slog"

	"go.player.tech/internal/platform/common"
)

// Evicter drops cached claims.
type Evicter interface {
	Evict(ctx context.Context, userIDs ...string) error
}

// Listener evicts the users affected by each committed event.
type Listener struct {
	lookup  Lookup
	evicter Evicter
	rules   []Rule
	logger  *slog.Logger
}

// NewListener creates a listener running DefaultRules.
func NewListener(lookup Lookup, evicter Evicter, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{lookup: lookup, evicter: evicter, rules: DefaultRules(), logger: logger}
}

// Name identifies the listener in dispatcher logs.
func (l *Listener) Name() string { return "claims-invalidation" }

// Handle evicts the users whose claims event changed.
func (l *Listener) Handle(ctx context.Context, event common.DomainEvent) error {
	userIDs, err := Affected(ctx, event, l.lookup, l.rules)
	if err != nil {
		return fmt.Errorf("compute affected users for %s: %w", event.EventType(), err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	if err := l.evicter.Evict(ctx, userIDs...); err != nil {
		return err
	}
	l.logger.DebugContext(ctx, "Evicted claims",
		"eventType", event.EventType(),
		"subject", event.Subject(),
		"users", len(userIDs))
	return nil
}
