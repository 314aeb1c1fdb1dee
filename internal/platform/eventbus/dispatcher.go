// Package eventbus delivers committed domain events to their listeners,
// either directly in process or through NATS JetStream so that every
// instance observes every event.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"go.player.tech/internal/common/metrics"
	"go.player.tech/internal/platform/common"
)

// Handler consumes domain events after commit.
type Handler interface {
	Name() string
	Handle(ctx context.Context, event common.DomainEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc struct {
	name string
	fn   func(ctx context.Context, event common.DomainEvent) error
}

// NewHandlerFunc creates a named function handler.
func NewHandlerFunc(name string, fn func(ctx context.Context, event common.DomainEvent) error) HandlerFunc {
	return HandlerFunc{name: name, fn: fn}
}

func (h HandlerFunc) Name() string { return h.name }

func (h HandlerFunc) Handle(ctx context.Context, event common.DomainEvent) error {
	return h.fn(ctx, event)
}

// Dispatcher fans events out to registered handlers synchronously, in
// registration order. A failing handler is logged and does not stop the
// others.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

var _ common.EventDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a new in-process dispatcher.
func NewDispatcher(logger *slog.Logger, handlers ...Handler) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{handlers: handlers, logger: logger}
}

// Subscribe adds a handler.
func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Dispatch delivers events to every handler.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...common.DomainEvent) {
	d.DispatchErr(ctx, events...)
}

// DispatchErr is Dispatch that reports whether any handler failed.
func (d *Dispatcher) DispatchErr(ctx context.Context, events ...common.DomainEvent) error {
	d.mu.RLock()
	handlers := d.handlers
	d.mu.RUnlock()

	var firstErr error
	for _, event := range events {
		aggregate := common.AggregateTypeOf(event.Subject())
		for _, h := range handlers {
			if err := h.Handle(ctx, event); err != nil {
				metrics.EventsDispatched.WithLabelValues(aggregate, "error").Inc()
				d.logger.ErrorContext(ctx, "Event handler failed",
					"handler", h.Name(),
					"eventId", event.EventID(),
					"eventType", event.EventType(),
					"error", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			metrics.EventsDispatched.WithLabelValues(aggregate, "success").Inc()
		}
	}
	return firstErr
}

// Multi dispatches to several dispatchers in order.
type Multi []common.EventDispatcher

// Dispatch delivers events to each dispatcher.
func (m Multi) Dispatch(ctx context.Context, events ...common.DomainEvent) {
	for _, d := range m {
		d.Dispatch(ctx, events...)
	}
}
