package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"go.player.tech/internal/queue"
)

// Consumer pulls from one durable JetStream consumer.
type Consumer struct {
	consumer jetstream.Consumer
	name     string
	logger   *slog.Logger

	mu   sync.Mutex
	iter jetstream.MessagesContext
}

var _ queue.Consumer = (*Consumer)(nil)

// Consume hands each message to handler until ctx is cancelled or Close is
// called. Handler errors are logged; the handler settles the message.
func (c *Consumer) Consume(ctx context.Context, handler queue.Handler) error {
	iter, err := c.consumer.Messages()
	if err != nil {
		return fmt.Errorf("open message iterator for %s: %w", c.name, err)
	}
	c.mu.Lock()
	c.iter = iter
	c.mu.Unlock()
	defer iter.Stop()

	stop := context.AfterFunc(ctx, iter.Stop)
	defer stop()

	c.logger.Info("Consuming events", "consumer", c.name)
	for {
		msg, err := iter.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, jetstream.ErrMsgIteratorClosed) {
				return nil
			}
			c.logger.Error("Failed to fetch event", "consumer", c.name, "error", err)
			continue
		}
		if err := handler(message{msg}); err != nil {
			c.logger.Error("Event handler failed", "consumer", c.name, "subject", msg.Subject(), "error", err)
		}
	}
}

// Close stops a running Consume.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.iter != nil {
		c.iter.Stop()
	}
	return nil
}

type message struct {
	msg jetstream.Msg
}

// ID is the publisher's Nats-Msg-Id, or stream:sequence when absent.
func (m message) ID() string {
	if id := m.msg.Headers().Get(jetstream.MsgIDHeader); id != "" {
		return id
	}
	if meta, err := m.msg.Metadata(); err == nil {
		return fmt.Sprintf("%s:%d", meta.Stream, meta.Sequence.Stream)
	}
	return ""
}

func (m message) Subject() string { return m.msg.Subject() }
func (m message) Data() []byte    { return m.msg.Data() }
func (m message) Ack() error      { return m.msg.Ack() }

func (m message) NakWithDelay(delay time.Duration) error {
	return m.msg.NakWithDelay(delay)
}

func (m message) Deliveries() int {
	meta, err := m.msg.Metadata()
	if err != nil {
		return 1
	}
	return int(meta.NumDelivered)
}
