package common

import (
	"encoding/json"
	"strings"
	"time"

	"go.player.tech/internal/common/ids"
)

// DefaultEventSource identifies events produced by this service.
const DefaultEventSource = "player:api"

// DomainEvent is the interface that all domain events must implement.
// It follows the CloudEvents attribute naming for interoperability.
type DomainEvent interface {
	// EventID returns the unique, time-ordered identifier for this event.
	EventID() string

	// EventType returns the type code for this event.
	// Format: player:{aggregate}:{action}
	// Example: "player:role:updated"
	EventType() string

	// SpecVersion returns the schema version of this event type.
	SpecVersion() string

	// Source returns the system that generated this event.
	Source() string

	// Subject returns the qualified aggregate identifier.
	// Format: player.{aggregate}.{id}
	Subject() string

	// Time returns when the event occurred.
	Time() time.Time

	// CorrelationID returns the distributed tracing identifier.
	CorrelationID() string

	// CausationID returns the ID of the event that caused this event.
	CausationID() string

	// ExecutionID returns the unique ID for this use case execution.
	ExecutionID() string

	// PrincipalID returns the ID of who initiated the action.
	PrincipalID() string

	// MessageGroup returns the group key for ordered delivery.
	MessageGroup() string

	// ToDataJSON serializes the event-specific payload to JSON.
	ToDataJSON() string
}

// BaseDomainEvent provides the envelope attributes of DomainEvent and is
// embedded in every concrete event type.
type BaseDomainEvent struct {
	ID          string    `json:"eventId" bson:"_id"`
	Type        string    `json:"eventType" bson:"type"`
	Version     string    `json:"specVersion" bson:"specVersion"`
	Src         string    `json:"source" bson:"source"`
	Subj        string    `json:"subject" bson:"subject"`
	Timestamp   time.Time `json:"time" bson:"time"`
	Correlation string    `json:"correlationId" bson:"correlationId"`
	Causation   string    `json:"causationId,omitempty" bson:"causationId,omitempty"`
	Execution   string    `json:"executionId" bson:"executionId"`
	Principal   string    `json:"principalId" bson:"principalId"`
	MsgGroup    string    `json:"messageGroup" bson:"messageGroup"`
}

// NewBaseDomainEvent creates a new BaseDomainEvent with fields populated
// from the execution context.
func NewBaseDomainEvent(ctx *ExecutionContext, eventType, subject, messageGroup string) BaseDomainEvent {
	now := time.Now()
	return BaseDomainEvent{
		ID:          ids.NewEventIDAt(now),
		Type:        eventType,
		Version:     "1.0",
		Src:         DefaultEventSource,
		Subj:        subject,
		Timestamp:   now,
		Correlation: ctx.CorrelationID,
		Causation:   ctx.CausationID,
		Execution:   ctx.ExecutionID,
		Principal:   ctx.PrincipalID,
		MsgGroup:    messageGroup,
	}
}

func (e BaseDomainEvent) EventID() string       { return e.ID }
func (e BaseDomainEvent) EventType() string     { return e.Type }
func (e BaseDomainEvent) SpecVersion() string   { return e.Version }
func (e BaseDomainEvent) Source() string        { return e.Src }
func (e BaseDomainEvent) Subject() string       { return e.Subj }
func (e BaseDomainEvent) Time() time.Time       { return e.Timestamp }
func (e BaseDomainEvent) CorrelationID() string { return e.Correlation }
func (e BaseDomainEvent) CausationID() string   { return e.Causation }
func (e BaseDomainEvent) ExecutionID() string   { return e.Execution }
func (e BaseDomainEvent) PrincipalID() string   { return e.Principal }
func (e BaseDomainEvent) MessageGroup() string  { return e.MsgGroup }

// ToDataJSON returns an empty object for the base event.
func (e BaseDomainEvent) ToDataJSON() string {
	return "{}"
}

// PersistedEvent represents a domain event as stored in the events collection.
type PersistedEvent struct {
	ID            string    `bson:"_id" json:"id"`
	SpecVersion   string    `bson:"specVersion" json:"specVersion"`
	Type          string    `bson:"type" json:"type"`
	Source        string    `bson:"source" json:"source"`
	Subject       string    `bson:"subject" json:"subject"`
	Time          time.Time `bson:"time" json:"time"`
	Data          string    `bson:"data" json:"data"`
	CorrelationID string    `bson:"correlationId" json:"correlationId"`
	CausationID   string    `bson:"causationId,omitempty" json:"causationId,omitempty"`
	ExecutionID   string    `bson:"executionId" json:"executionId"`
	PrincipalID   string    `bson:"principalId" json:"principalId"`
	MessageGroup  string    `bson:"messageGroup" json:"messageGroup"`
	AggregateType string    `bson:"aggregateType" json:"aggregateType"`
}

// ToPersistedEvent converts a DomainEvent to a PersistedEvent for storage.
func ToPersistedEvent(event DomainEvent) *PersistedEvent {
	return &PersistedEvent{
		ID:            event.EventID(),
		SpecVersion:   event.SpecVersion(),
		Type:          event.EventType(),
		Source:        event.Source(),
		Subject:       event.Subject(),
		Time:          event.Time(),
		Data:          event.ToDataJSON(),
		CorrelationID: event.CorrelationID(),
		CausationID:   event.CausationID(),
		ExecutionID:   event.ExecutionID(),
		PrincipalID:   event.PrincipalID(),
		MessageGroup:  event.MessageGroup(),
		AggregateType: AggregateTypeOf(event.Subject()),
	}
}

// AggregateTypeOf extracts the aggregate segment of a subject.
// Example: "player.teamrole.4f1c..." -> "teamrole"
func AggregateTypeOf(subject string) string {
	parts := strings.SplitN(subject, ".", 3)
	if len(parts) >= 2 {
		return parts[1]
	}
	return subject
}

// AggregateIDOf extracts the id segment of a subject.
func AggregateIDOf(subject string) string {
	parts := strings.SplitN(subject, ".", 3)
	if len(parts) == 3 {
		return parts[2]
	}
	return ""
}

// MarshalDataJSON is a helper to serialize event payload to JSON.
func MarshalDataJSON(data any) string {
	bytes, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(bytes)
}

// Base reconstructs the envelope attributes of a persisted event.
func (p *PersistedEvent) Base() BaseDomainEvent {
	return BaseDomainEvent{
		ID:          p.ID,
		Type:        p.Type,
		Version:     p.SpecVersion,
		Src:         p.Source,
		Subj:        p.Subject,
		Timestamp:   p.Time,
		Correlation: p.CorrelationID,
		Causation:   p.CausationID,
		Execution:   p.ExecutionID,
		Principal:   p.PrincipalID,
		MsgGroup:    p.MessageGroup,
	}
}
