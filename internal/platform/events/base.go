// Package events defines the entity lifecycle events emitted by Player
// commands. Every persisted aggregate produces Created, Updated and Deleted
// events; Updated carries the names of the properties that changed so
// listeners can ignore changes that do not concern them.
package events

import (
	"fmt"

	"go.player.tech/internal/platform/common"
)

const (
	// Domain is the first segment of every subject and event type.
	Domain = "player"

	// DefaultSpecVersion is the schema version stamped on every event
	DefaultSpecVersion = "1.0"
)

// Lifecycle actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entity is implemented by every aggregate that emits lifecycle events.
type Entity interface {
	common.AggregateRoot

	// AggregateType returns the short aggregate name used in subjects,
	// e.g. "teamrole".
	AggregateType() string
}

// EventType builds an event type code.
// Format: player:{aggregate}:{action}
func EventType(aggregate, action string) string {
	return fmt.Sprintf("%s:%s:%s", Domain, aggregate, action)
}

// subject builds a subject string for domain events
// Format: player.{aggregate}.{id}
func subject(aggregate, id string) string {
	return fmt.Sprintf("%s.%s.%s", Domain, aggregate, id)
}

// messageGroup builds a message group key for ordered delivery
// Format: player:{aggregate}:{id}
func messageGroup(aggregate, id string) string {
	return fmt.Sprintf("%s:%s:%s", Domain, aggregate, id)
}

// newBase creates a BaseDomainEvent with standard settings
func newBase(ctx *common.ExecutionContext, entity Entity, action string) common.BaseDomainEvent {
	aggregate := entity.AggregateType()
	return common.NewBaseDomainEvent(
		ctx,
		EventType(aggregate, action),
		subject(aggregate, entity.AggregateID()),
		messageGroup(aggregate, entity.AggregateID()),
	)
}
