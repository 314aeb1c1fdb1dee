package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/ids"
	"go.player.tech/internal/common/repository"
)

const (
	eventsCollection    = "events"
	auditLogsCollection = "audit_logs"
)

// MongoUnitOfWork implements UnitOfWork using MongoDB transactions.
// Aggregate persistence, domain event creation and audit logging happen
// atomically within a single transaction; events are dispatched afterwards.
type MongoUnitOfWork struct {
	client     *mongo.Client
	db         *mongo.Database
	dispatcher EventDispatcher
}

// NewMongoUnitOfWork creates a new MongoDB-backed UnitOfWork.
// A nil dispatcher discards events.
func NewMongoUnitOfWork(client *mongo.Client, db *mongo.Database, dispatcher EventDispatcher) *MongoUnitOfWork {
	if dispatcher == nil {
		dispatcher = NopDispatcher{}
	}
	return &MongoUnitOfWork{
		client:     client,
		db:         db,
		dispatcher: dispatcher,
	}
}

// Commit persists an aggregate with its domain event atomically.
func (uow *MongoUnitOfWork) Commit(ctx context.Context, aggregate AggregateRoot, event DomainEvent, command any) Result[DomainEvent] {
	var changes Changes
	return uow.CommitChanges(ctx, *changes.Save(aggregate).Record(event), command)
}

// CommitDelete deletes an aggregate with its domain event atomically.
func (uow *MongoUnitOfWork) CommitDelete(ctx context.Context, aggregate AggregateRoot, event DomainEvent, command any) Result[DomainEvent] {
	var changes Changes
	return uow.CommitChanges(ctx, *changes.Delete(aggregate).Record(event), command)
}

// CommitChanges applies every upsert and delete in changes and records its
// events inside one transaction.
func (uow *MongoUnitOfWork) CommitChanges(ctx context.Context, changes Changes, command any) Result[DomainEvent] {
	if len(changes.Events) == 0 {
		return Failure[DomainEvent](InternalError(ErrCodeCommitFailed, "Commit requires at least one domain event", nil))
	}

	session, err := uow.client.StartSession()
	if err != nil {
		return Failure[DomainEvent](InternalError(
			ErrCodeCommitFailed,
			"Failed to start session: "+err.Error(),
			nil,
		))
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		for _, aggregate := range changes.Saved {
			if err := uow.persistAggregate(sessCtx, aggregate); err != nil {
				return nil, fmt.Errorf("persist %s/%s: %w", aggregate.CollectionName(), aggregate.AggregateID(), err)
			}
		}
		for _, aggregate := range changes.Deleted {
			if err := uow.deleteAggregate(sessCtx, aggregate); err != nil {
				return nil, fmt.Errorf("delete %s/%s: %w", aggregate.CollectionName(), aggregate.AggregateID(), err)
			}
		}
		if err := uow.createEvents(sessCtx, changes.Events); err != nil {
			return nil, fmt.Errorf("create events: %w", err)
		}
		if err := uow.createAuditLogs(sessCtx, changes.Events, command); err != nil {
			return nil, fmt.Errorf("create audit logs: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return Failure[DomainEvent](commitError(repository.Translate(err)))
	}

	uow.dispatcher.Dispatch(ctx, changes.Events...)

	// ONLY HERE can we return success - via unexported constructor
	return newSuccess(changes.Events[0])
}

// commitError maps a failed transaction onto the use case taxonomy.
// Unique index violations surface as Conflict.
func commitError(err error) *UseCaseError {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return ConflictError(ErrCodeCommitFailed, "Transaction violates a uniqueness constraint", map[string]any{"error": err.Error()})
	}
	return InternalError(ErrCodeCommitFailed, "Transaction failed: "+err.Error(), nil)
}

func (uow *MongoUnitOfWork) persistAggregate(ctx mongo.SessionContext, aggregate AggregateRoot) error {
	if aggregate.AggregateID() == "" {
		return errors.New("aggregate has no ID")
	}
	_, err := uow.db.Collection(aggregate.CollectionName()).ReplaceOne(
		ctx,
		bson.M{"_id": aggregate.AggregateID()},
		aggregate,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (uow *MongoUnitOfWork) deleteAggregate(ctx mongo.SessionContext, aggregate AggregateRoot) error {
	_, err := uow.db.Collection(aggregate.CollectionName()).DeleteOne(ctx, bson.M{"_id": aggregate.AggregateID()})
	return err
}

func (uow *MongoUnitOfWork) createEvents(ctx mongo.SessionContext, events []DomainEvent) error {
	docs := make([]any, 0, len(events))
	for _, event := range events {
		docs = append(docs, ToPersistedEvent(event))
	}
	_, err := uow.db.Collection(eventsCollection).InsertMany(ctx, docs)
	return err
}

func (uow *MongoUnitOfWork) createAuditLogs(ctx mongo.SessionContext, events []DomainEvent, command any) error {
	logs := NewAuditLogs(events, command)
	docs := make([]any, len(logs))
	for i := range logs {
		docs[i] = logs[i]
	}
	_, err := uow.db.Collection(auditLogsCollection).InsertMany(ctx, docs)
	return err
}

// AuditLog records who ran which command against which entity.
type AuditLog struct {
	ID            string    `bson:"_id" json:"id"`
	EntityType    string    `bson:"entityType" json:"entityType"`
	EntityID      string    `bson:"entityId" json:"entityId"`
	Operation     string    `bson:"operation" json:"operation"`
	OperationJSON string    `bson:"operationJson" json:"operationJson"`
	PrincipalID   string    `bson:"principalId" json:"principalId"`
	CorrelationID string    `bson:"correlationId" json:"correlationId"`
	PerformedAt   time.Time `bson:"performedAt" json:"performedAt"`
}

// NewAuditLogs returns one entry per event of a commit. Every entry names
// the command that caused it, so cascaded changes are searchable by their
// own entity.
func NewAuditLogs(events []DomainEvent, command any) []AuditLog {
	operation, body := operationName(command), auditJSON(command)
	logs := make([]AuditLog, len(events))
	for i, event := range events {
		logs[i] = newAuditLog(event, operation, body)
	}
	return logs
}

func newAuditLog(event DomainEvent, operation, body string) AuditLog {
	return AuditLog{
		ID:            ids.NewEventID(),
		EntityType:    AggregateTypeOf(event.Subject()),
		EntityID:      AggregateIDOf(event.Subject()),
		Operation:     operation,
		OperationJSON: body,
		PrincipalID:   event.PrincipalID(),
		CorrelationID: event.CorrelationID(),
		PerformedAt:   event.Time(),
	}
}

func auditJSON(command any) string {
	if auditable, ok := command.(Auditable); ok {
		return auditable.ToAuditJSON()
	}
	bytes, err := json.Marshal(command)
	if err != nil {
		return "{}"
	}
	return string(bytes)
}

// operationName returns the command's type name, e.g. "CreateRoleCommand".
func operationName(command any) string {
	if command == nil {
		return "Unknown"
	}
	t := reflect.TypeOf(command)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.TrimSpace(t.Name())
}
