// Package queue defines the broker abstractions the event bus runs on.
package queue

import (
	"context"
	"time"
)

// Default stream layout for domain events
const (
	DefaultStreamName  = "PLAYER_EVENTS"
	DefaultSubjectRoot = "player.events"
)

// Message is one delivery from the broker.
type Message interface {
	ID() string
	Subject() string
	Data() []byte

	// Deliveries counts delivery attempts, starting at 1.
	Deliveries() int

	Ack() error
	NakWithDelay(delay time.Duration) error
}

// Handler processes one message and settles it with Ack or NakWithDelay.
type Handler func(Message) error

// Publisher sends messages to the broker. id is the deduplication key;
// the broker drops a second message with the same id inside its window.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte, id string) error
}

// Consumer delivers messages to a handler until ctx is cancelled.
type Consumer interface {
	Consume(ctx context.Context, handler Handler) error
	Close() error
}

// Config holds event bus transport configuration
type Config struct {
	// Type is "embedded" (in-process NATS server), "nats" (external NATS)
	// or "memory" (no broker, local dispatch only)
	Type string

	// DataDir is the JetStream store for the embedded server
	DataDir string

	NATS NATSConfig
}

// NATSConfig describes the JetStream stream and its consumers.
type NATSConfig struct {
	URL        string
	StreamName string
	Subjects   []string

	// AckWait is how long a delivery may stay unacknowledged
	AckWait time.Duration

	// MaxDeliver caps redeliveries of a failing message
	MaxDeliver int

	// MaxAge is the stream retention
	MaxAge time.Duration

	// DuplicateWindow is how long the stream remembers message ids
	DuplicateWindow time.Duration
}

// WithDefaults fills every unset field.
func (c NATSConfig) WithDefaults() NATSConfig {
	if c.URL == "" {
		c.URL = "nats://localhost:4222"
	}
	if c.StreamName == "" {
		c.StreamName = DefaultStreamName
	}
	if len(c.Subjects) == 0 {
		c.Subjects = []string{DefaultSubjectRoot + ".>"}
	}
	if c.AckWait <= 0 {
		c.AckWait = 30 * time.Second
	}
	if c.MaxDeliver <= 0 {
		c.MaxDeliver = 5
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 24 * time.Hour
	}
	if c.DuplicateWindow <= 0 {
		c.DuplicateWindow = 2 * time.Minute
	}
	return c
}
