package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.player.tech/internal/platform/common"
)

// ErrUnknownEventType is returned by Decode for event types nobody registered.
var ErrUnknownEventType = errors.New("unknown event type")

type decodeFunc func(base common.BaseDomainEvent, data []byte) (common.DomainEvent, error)

var (
	decodersMu sync.RWMutex
	decoders   = make(map[string]decodeFunc)
)

// Register makes the lifecycle events of an aggregate decodable from their
// persisted form. Registering the same aggregate twice replaces the decoders.
func Register[T Entity](aggregate string) {
	decodersMu.Lock()
	defer decodersMu.Unlock()

	decoders[EventType(aggregate, ActionCreated)] = func(base common.BaseDomainEvent, data []byte) (common.DomainEvent, error) {
		var d createdData[T]
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return &Created[T]{BaseDomainEvent: base, Entity: d.Entity}, nil
	}
	decoders[EventType(aggregate, ActionUpdated)] = func(base common.BaseDomainEvent, data []byte) (common.DomainEvent, error) {
		var d updatedData[T]
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return &Updated[T]{
			BaseDomainEvent:   base,
			Entity:            d.Entity,
			Previous:          d.Previous,
			ChangedProperties: d.ChangedProperties,
		}, nil
	}
	decoders[EventType(aggregate, ActionDeleted)] = func(base common.BaseDomainEvent, data []byte) (common.DomainEvent, error) {
		var d createdData[T]
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return &Deleted[T]{BaseDomainEvent: base, Entity: d.Entity}, nil
	}
}

// Decode rebuilds a typed lifecycle event from its persisted form.
func Decode(p *common.PersistedEvent) (common.DomainEvent, error) {
	decodersMu.RLock()
	decode, ok := decoders[p.Type]
	decodersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, p.Type)
	}
	event, err := decode(p.Base(), []byte(p.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.Type, err)
	}
	return event, nil
}
