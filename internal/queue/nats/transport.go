// Package nats carries domain events over NATS JetStream, against an
// external server or one embedded in the process for dev mode.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"go.player.tech/internal/queue"
)

// Transport is a JetStream connection bound to the event stream. It is the
// queue.Publisher and hands out durable consumers.
type Transport struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	config queue.NATSConfig
	logger *slog.Logger
}

var _ queue.Publisher = (*Transport)(nil)

// Dial connects to the server at cfg.URL and configures the stream on
// file storage.
func Dial(cfg queue.NATSConfig, logger *slog.Logger) (*Transport, error) {
	cfg = cfg.WithDefaults()
	return connect(cfg.URL, cfg, jetstream.FileStorage, logger)
}

func connect(url string, cfg queue.NATSConfig, storage jetstream.StorageType, logger *slog.Logger) (*Transport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(url,
		nats.Name("player"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	t := &Transport{conn: conn, js: js, config: cfg, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := t.ensureStream(ctx, storage); err != nil {
		conn.Close()
		return nil, err
	}
	return t, nil
}

// ensureStream creates or updates the event stream. Limits retention lets
// every instance's durable consumer read every event.
func (t *Transport) ensureStream(ctx context.Context, storage jetstream.StorageType) error {
	_, err := t.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       t.config.StreamName,
		Subjects:   t.config.Subjects,
		Storage:    storage,
		Retention:  jetstream.LimitsPolicy,
		Discard:    jetstream.DiscardOld,
		MaxAge:     t.config.MaxAge,
		MaxMsgs:    -1,
		MaxBytes:   -1,
		Replicas:   1,
		Duplicates: t.config.DuplicateWindow,
	})
	if err != nil {
		return fmt.Errorf("configure stream %s: %w", t.config.StreamName, err)
	}
	t.logger.Info("JetStream stream configured", "stream", t.config.StreamName, "subjects", t.config.Subjects)
	return nil
}

// Publish sends data with id as the Nats-Msg-Id, so a retried publish
// inside the duplicate window is stored once.
func (t *Transport) Publish(ctx context.Context, subject string, data []byte, id string) error {
	msg := nats.NewMsg(subject)
	msg.Data = data
	if id != "" {
		msg.Header.Set(jetstream.MsgIDHeader, id)
	}
	if _, err := t.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// Consumer creates or updates the durable consumer name on filter. New
// consumers start at the next event; earlier ones concern caches that no
// longer exist.
func (t *Transport) Consumer(ctx context.Context, name, filter string) (*Consumer, error) {
	stream, err := t.js.Stream(ctx, t.config.StreamName)
	if err != nil {
		return nil, fmt.Errorf("lookup stream %s: %w", t.config.StreamName, err)
	}

	c, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          name,
		Durable:       name,
		FilterSubject: filter,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       t.config.AckWait,
		MaxDeliver:    t.config.MaxDeliver,
		DeliverPolicy: jetstream.DeliverNewPolicy,
		ReplayPolicy:  jetstream.ReplayInstantPolicy,
		MaxAckPending: 1000,
	})
	if err != nil {
		return nil, fmt.Errorf("create consumer %s: %w", name, err)
	}
	return &Consumer{consumer: c, name: name, logger: t.logger}, nil
}

// Connected reports the connection state for readiness checks.
func (t *Transport) Connected() bool {
	return t.conn.IsConnected()
}

// Close drains pending publishes and closes the connection.
func (t *Transport) Close() error {
	if err := t.conn.Drain(); err != nil {
		t.conn.Close()
		return err
	}
	return nil
}
