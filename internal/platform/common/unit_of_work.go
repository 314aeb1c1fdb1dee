package common

import "context"

// UnitOfWork defines the interface for atomic operations that persist
// aggregates, record domain events and create audit logs transactionally.
//
// This is the ONLY way to return a successful Result from a use case.
// Every implementation hands the committed events to its EventDispatcher
// after the transaction has committed, never before, so listeners such as
// claims invalidation only ever observe durable changes.
//
// Example usage in a use case:
//
//	func (uc *CreateRoleUseCase) Execute(
//	    ctx context.Context,
//	    cmd CreateRoleCommand,
//	    execCtx *common.ExecutionContext,
//	) common.Result[common.DomainEvent] {
//	    if cmd.Name == "" {
//	        return common.Failure[common.DomainEvent](common.ValidationError(...))
//	    }
//	    r := &role.Role{...}
//	    return uc.unitOfWork.Commit(ctx, r, events.NewCreated(execCtx, *r), cmd)
//	}
type UnitOfWork interface {
	// Commit persists (upserts) one aggregate with its domain event.
	Commit(ctx context.Context, aggregate AggregateRoot, event DomainEvent, command any) Result[DomainEvent]

	// CommitDelete deletes one aggregate with its domain event.
	CommitDelete(ctx context.Context, aggregate AggregateRoot, event DomainEvent, command any) Result[DomainEvent]

	// CommitChanges applies a mixed set of upserts and deletes, recording all
	// events, in a single transaction. The first event is the primary event
	// returned in the Result; membership and view-graph commands use this to
	// keep paired entities consistent.
	CommitChanges(ctx context.Context, changes Changes, command any) Result[DomainEvent]
}

// Changes is the write set of a multi-aggregate commit.
type Changes struct {
	Saved   []AggregateRoot
	Deleted []AggregateRoot
	Events  []DomainEvent
}

// Save appends aggregates to upsert.
func (c *Changes) Save(aggregates ...AggregateRoot) *Changes {
	c.Saved = append(c.Saved, aggregates...)
	return c
}

// Delete appends aggregates to remove.
func (c *Changes) Delete(aggregates ...AggregateRoot) *Changes {
	c.Deleted = append(c.Deleted, aggregates...)
	return c
}

// Record appends domain events.
func (c *Changes) Record(events ...DomainEvent) *Changes {
	c.Events = append(c.Events, events...)
	return c
}

// AggregateRoot is implemented by every persisted entity.
type AggregateRoot interface {
	// AggregateID returns the unique identifier for this aggregate.
	AggregateID() string

	// CollectionName returns the MongoDB collection name for this aggregate type.
	CollectionName() string
}

// EventDispatcher receives domain events after their transaction commits.
// Dispatch must not block the committing request for long; failures are the
// dispatcher's to log, they never undo a commit.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events ...DomainEvent)
}

// NopDispatcher discards events.
type NopDispatcher struct{}

// Dispatch does nothing.
func (NopDispatcher) Dispatch(context.Context, ...DomainEvent) {}

// Auditable is an optional interface that commands can implement
// to customize how they are serialized for audit logging.
type Auditable interface {
	// ToAuditJSON returns the JSON representation for audit logging.
	ToAuditJSON() string
}
