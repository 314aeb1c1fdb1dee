package common

import (
	"context"
	"sync"
)

// AggregateStore applies a write set atomically. The in-memory store used in
// tests and dev mode implements it; it must return
// repository.ErrDuplicateKey for unique constraint violations.
type AggregateStore interface {
	Apply(ctx context.Context, saved, deleted []AggregateRoot) error
}

// MemoryUnitOfWork implements UnitOfWork over an AggregateStore. It keeps the
// committed events and audit log in memory so tests can inspect them.
type MemoryUnitOfWork struct {
	store      AggregateStore
	dispatcher EventDispatcher

	mu     sync.Mutex
	events []DomainEvent
	audit  []AuditLog
}

// NewMemoryUnitOfWork creates a UnitOfWork backed by store.
// A nil dispatcher discards events.
func NewMemoryUnitOfWork(store AggregateStore, dispatcher EventDispatcher) *MemoryUnitOfWork {
	if dispatcher == nil {
		dispatcher = NopDispatcher{}
	}
	return &MemoryUnitOfWork{store: store, dispatcher: dispatcher}
}

// Commit persists an aggregate with its domain event.
func (uow *MemoryUnitOfWork) Commit(ctx context.Context, aggregate AggregateRoot, event DomainEvent, command any) Result[DomainEvent] {
	var changes Changes
	return uow.CommitChanges(ctx, *changes.Save(aggregate).Record(event), command)
}

// CommitDelete deletes an aggregate with its domain event.
func (uow *MemoryUnitOfWork) CommitDelete(ctx context.Context, aggregate AggregateRoot, event DomainEvent, command any) Result[DomainEvent] {
	var changes Changes
	return uow.CommitChanges(ctx, *changes.Delete(aggregate).Record(event), command)
}

// CommitChanges applies the write set and records its events.
func (uow *MemoryUnitOfWork) CommitChanges(ctx context.Context, changes Changes, command any) Result[DomainEvent] {
	if len(changes.Events) == 0 {
		return Failure[DomainEvent](InternalError(ErrCodeCommitFailed, "Commit requires at least one domain event", nil))
	}
	if err := uow.store.Apply(ctx, changes.Saved, changes.Deleted); err != nil {
		return Failure[DomainEvent](commitError(err))
	}

	uow.mu.Lock()
	uow.events = append(uow.events, changes.Events...)
	uow.audit = append(uow.audit, NewAuditLogs(changes.Events, command)...)
	uow.mu.Unlock()

	uow.dispatcher.Dispatch(ctx, changes.Events...)
	return newSuccess(changes.Events[0])
}

// Events returns a copy of every committed event, oldest first.
func (uow *MemoryUnitOfWork) Events() []DomainEvent {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	return append([]DomainEvent(nil), uow.events...)
}

// AuditLogs returns a copy of the recorded audit entries.
func (uow *MemoryUnitOfWork) AuditLogs() []AuditLog {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	return append([]AuditLog(nil), uow.audit...)
}
