// Package audit reads the audit trail the unit of work writes alongside
// every commit.
package audit

import (
	"context"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/common"
)

const (
	collectionName = "audit_logs"

	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Query filters the audit trail. Empty fields match everything. Results are
// newest first.
type Query struct {
	EntityType  string
	EntityID    string
	PrincipalID string
	Operation   string
	Page        int
	PageSize    int
}

func (q Query) normalized() Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

func (q Query) matches(log *common.AuditLog) bool {
	return (q.EntityType == "" || log.EntityType == q.EntityType) &&
		(q.EntityID == "" || log.EntityID == q.EntityID) &&
		(q.PrincipalID == "" || log.PrincipalID == q.PrincipalID) &&
		(q.Operation == "" || log.Operation == q.Operation)
}

// Page is one page of audit entries with the total match count.
type Page struct {
	AuditLogs []*common.AuditLog `json:"auditLogs"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"pageSize"`
}

// Repository provides read access to audit log data
type Repository interface {
	FindByID(ctx context.Context, id string) (*common.AuditLog, error)
	Search(ctx context.Context, q Query) (*Page, error)
}

// mongoRepository reads the audit_logs collection
type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates a new audit log repository
func NewRepository(db *mongo.Database) Repository {
	return &mongoRepository{collection: db.Collection(collectionName)}
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*common.AuditLog, error) {
	return repository.Instrument(ctx, collectionName, "FindByID", func() (*common.AuditLog, error) {
		return repository.FindOne[common.AuditLog](ctx, r.collection, bson.M{"_id": id})
	})
}

func (r *mongoRepository) Search(ctx context.Context, q Query) (*Page, error) {
	q = q.normalized()
	return repository.Instrument(ctx, collectionName, "Search", func() (*Page, error) {
		filter := bson.M{}
		for field, value := range map[string]string{
			"entityType":  q.EntityType,
			"entityId":    q.EntityID,
			"principalId": q.PrincipalID,
			"operation":   q.Operation,
		} {
			if value != "" {
				filter[field] = value
			}
		}

		total, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}

		opts := options.Find().
			SetSkip(int64(q.Page * q.PageSize)).
			SetLimit(int64(q.PageSize)).
			SetSort(bson.D{{Key: "performedAt", Value: -1}})
		logs, err := repository.FindMany[common.AuditLog](ctx, r.collection, filter, opts)
		if err != nil {
			return nil, err
		}
		if logs == nil {
			logs = []*common.AuditLog{}
		}
		return &Page{AuditLogs: logs, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
	})
}

// memoryRepository serves the entries a MemoryUnitOfWork recorded
type memoryRepository struct {
	source func() []common.AuditLog
}

// NewMemoryRepository reads from source, typically MemoryUnitOfWork.AuditLogs.
func NewMemoryRepository(source func() []common.AuditLog) Repository {
	return &memoryRepository{source: source}
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*common.AuditLog, error) {
	for _, log := range r.source() {
		if log.ID == id {
			return &log, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryRepository) Search(_ context.Context, q Query) (*Page, error) {
	q = q.normalized()

	var matched []*common.AuditLog
	for _, log := range r.source() {
		if q.matches(&log) {
			matched = append(matched, &log)
		}
	}
	slices.SortStableFunc(matched, func(a, b *common.AuditLog) int {
		if c := b.PerformedAt.Compare(a.PerformedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	page := &Page{AuditLogs: []*common.AuditLog{}, Total: int64(len(matched)), Page: q.Page, PageSize: q.PageSize}
	start := q.Page * q.PageSize
	if start < len(matched) {
		end := min(start+q.PageSize, len(matched))
		page.AuditLogs = matched[start:end]
	}
	return page, nil
}
