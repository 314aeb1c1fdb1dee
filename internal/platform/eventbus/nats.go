package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.player.tech/internal/common/metrics"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/events"
	"go.player.tech/internal/queue"
)

const queueType = "nats"

// Subject returns the wire subject of event under root.
// Format: {root}.{aggregate}.{action}
func Subject(root string, event common.DomainEvent) string {
	action := event.EventType()
	if i := strings.LastIndex(action, ":"); i >= 0 {
		action = action[i+1:]
	}
	return fmt.Sprintf("%s.%s.%s", root, common.AggregateTypeOf(event.Subject()), action)
}

// Publisher forwards committed events to the broker as PersistedEvent JSON.
// The event id is the deduplication id so a retried publish is delivered
// once.
type Publisher struct {
	publisher queue.Publisher
	root      string
	logger    *slog.Logger
}

var _ common.EventDispatcher = (*Publisher)(nil)

// NewPublisher creates a broker publisher. root defaults to
// queue.DefaultSubjectRoot.
func NewPublisher(publisher queue.Publisher, root string, logger *slog.Logger) *Publisher {
	if root == "" {
		root = queue.DefaultSubjectRoot
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{publisher: publisher, root: root, logger: logger}
}

// Dispatch publishes each event. Failures are logged; the commit stands.
func (p *Publisher) Dispatch(ctx context.Context, events ...common.DomainEvent) {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			p.logger.ErrorContext(ctx, "Failed to publish event",
				"eventId", event.EventID(),
				"eventType", event.EventType(),
				"error", err)
		}
	}
}

// Publish sends one event.
func (p *Publisher) Publish(ctx context.Context, event common.DomainEvent) error {
	data, err := json.Marshal(common.ToPersistedEvent(event))
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventID(), err)
	}
	if err := p.publisher.Publish(ctx, Subject(p.root, event), data, event.EventID()); err != nil {
		metrics.QueuePublishErrors.WithLabelValues(queueType).Inc()
		return err
	}
	metrics.QueueMessagesPublished.WithLabelValues(queueType).Inc()
	return nil
}

// Subscriber feeds broker events into a local Dispatcher. It runs as a
// lifecycle service.
type Subscriber struct {
	consumer   queue.Consumer
	dispatcher *Dispatcher
	retryDelay time.Duration
	logger     *slog.Logger
	running    atomic.Bool
}

// NewSubscriber creates a subscriber. Every aggregate's events are
// registered for decoding.
func NewSubscriber(consumer queue.Consumer, dispatcher *Dispatcher, logger *slog.Logger) *Subscriber {
	RegisterEvents()
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{consumer: consumer, dispatcher: dispatcher, retryDelay: 2 * time.Second, logger: logger}
}

func (s *Subscriber) Name() string { return "event-subscriber" }

// Start consumes until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.running.Store(true)
	defer s.running.Store(false)

	err := s.consumer.Consume(ctx, s.HandleMessage)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop closes the consumer.
func (s *Subscriber) Stop(ctx context.Context) error {
	return s.consumer.Close()
}

// Health reports whether the consume loop is running.
func (s *Subscriber) Health() error {
	if !s.running.Load() {
		return errors.New("event subscriber not running")
	}
	return nil
}

// HandleMessage decodes and dispatches one message. Undecodable messages
// are acknowledged and dropped since redelivery cannot fix them; handler
// failures are redelivered after a delay.
func (s *Subscriber) HandleMessage(msg queue.Message) error {
	metrics.QueueMessagesConsumed.WithLabelValues(queueType).Inc()
	ctx := context.Background()

	var persisted common.PersistedEvent
	if err := json.Unmarshal(msg.Data(), &persisted); err != nil {
		s.logger.Warn("Dropping malformed event message", "subject", msg.Subject(), "error", err)
		return msg.Ack()
	}

	event, err := events.Decode(&persisted)
	if err != nil {
		s.logger.Warn("Dropping undecodable event", "eventId", persisted.ID, "type", persisted.Type, "error", err)
		return msg.Ack()
	}

	ctx = common.WithCorrelationID(ctx, persisted.CorrelationID)
	if err := s.dispatcher.DispatchErr(ctx, event); err != nil {
		s.logger.Warn("Event handler failed, redelivering",
			"eventId", persisted.ID, "deliveries", msg.Deliveries(), "error", err)
		if nakErr := msg.NakWithDelay(s.retryDelay); nakErr != nil {
			return errors.Join(err, nakErr)
		}
		return err
	}
	return msg.Ack()
}
