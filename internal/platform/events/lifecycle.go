package events

import (
	"slices"

	"go.player.tech/internal/platform/common"
)

// Created is emitted when an entity is first persisted.
type Created[T Entity] struct {
	common.BaseDomainEvent
	Entity T `json:"entity"`
}

// NewCreated creates a Created event for entity.
func NewCreated[T Entity](ctx *common.ExecutionContext, entity T) *Created[T] {
	return &Created[T]{
		BaseDomainEvent: newBase(ctx, entity, ActionCreated),
		Entity:          entity,
	}
}

func (e *Created[T]) ToDataJSON() string {
	return common.MarshalDataJSON(createdData[T]{Entity: e.Entity})
}

type createdData[T Entity] struct {
	Entity T `json:"entity"`
}

// Updated is emitted when an existing entity changes. Previous holds the
// state before the change.
type Updated[T Entity] struct {
	common.BaseDomainEvent
	Entity            T        `json:"entity"`
	Previous          T        `json:"previous"`
	ChangedProperties []string `json:"changedProperties"`
}

// NewUpdated creates an Updated event, deriving ChangedProperties from the
// difference between previous and current.
func NewUpdated[T Entity](ctx *common.ExecutionContext, previous, current T) *Updated[T] {
	return &Updated[T]{
		BaseDomainEvent:   newBase(ctx, current, ActionUpdated),
		Entity:            current,
		Previous:          previous,
		ChangedProperties: ChangedProperties(previous, current),
	}
}

// HasChanged reports whether any of the named properties changed.
func (e *Updated[T]) HasChanged(properties ...string) bool {
	for _, p := range properties {
		if slices.Contains(e.ChangedProperties, p) {
			return true
		}
	}
	return false
}

func (e *Updated[T]) ToDataJSON() string {
	return common.MarshalDataJSON(updatedData[T]{
		Entity:            e.Entity,
		Previous:          e.Previous,
		ChangedProperties: e.ChangedProperties,
	})
}

type updatedData[T Entity] struct {
	Entity            T        `json:"entity"`
	Previous          T        `json:"previous"`
	ChangedProperties []string `json:"changedProperties"`
}

// Deleted is emitted when an entity is removed. Entity holds its final state.
type Deleted[T Entity] struct {
	common.BaseDomainEvent
	Entity T `json:"entity"`
}

// NewDeleted creates a Deleted event for entity.
func NewDeleted[T Entity](ctx *common.ExecutionContext, entity T) *Deleted[T] {
	return &Deleted[T]{
		BaseDomainEvent: newBase(ctx, entity, ActionDeleted),
		Entity:          entity,
	}
}

func (e *Deleted[T]) ToDataJSON() string {
	return common.MarshalDataJSON(createdData[T]{Entity: e.Entity})
}
