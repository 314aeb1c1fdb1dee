package leader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LockDocument is a lock as stored in the leader_locks collection.
type LockDocument struct {
	ID         string    `bson:"_id"`
	InstanceID string    `bson:"instanceId"`
	AcquiredAt time.Time `bson:"acquiredAt"`
	ExpiresAt  time.Time `bson:"expiresAt"`
}

// MongoLock stores the lock as a document with a TTL index on expiresAt.
type MongoLock struct {
	collection *mongo.Collection
	name       string
	now        func() time.Time
}

// NewMongoLock creates a lock named name in db.leader_locks.
func NewMongoLock(db *mongo.Database, name string) *MongoLock {
	return &MongoLock{collection: db.Collection("leader_locks"), name: name, now: time.Now}
}

func (l *MongoLock) Name() string { return l.name }

// EnsureIndexes creates the TTL index that reaps abandoned locks.
func (l *MongoLock) EnsureIndexes(ctx context.Context) error {
	_, err := l.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expiresAt"),
	})
	return err
}

func (l *MongoLock) Acquire(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	now := l.now()

	// Matches when the lock is expired or ours; upserts when absent. A live
	// lock held by someone else makes the upsert collide on _id.
	filter := bson.M{
		"_id": l.name,
		"$or": []bson.M{
			{"expiresAt": bson.M{"$lt": now}},
			{"instanceId": holder},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"instanceId": holder,
			"acquiredAt": now,
			"expiresAt":  now.Add(ttl),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc LockDocument
	err := l.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	switch {
	case err == nil:
		return doc.InstanceID == holder, nil
	case mongo.IsDuplicateKeyError(err):
		return false, nil
	default:
		return false, fmt.Errorf("acquire %s: %w", l.name, err)
	}
}

func (l *MongoLock) Refresh(ctx context.Context, holder string, ttl time.Duration) (bool, error) {
	result, err := l.collection.UpdateOne(ctx,
		bson.M{"_id": l.name, "instanceId": holder},
		bson.M{"$set": bson.M{"expiresAt": l.now().Add(ttl)}},
	)
	if err != nil {
		return false, fmt.Errorf("refresh %s: %w", l.name, err)
	}
	return result.MatchedCount > 0, nil
}

func (l *MongoLock) Release(ctx context.Context, holder string) (bool, error) {
	result, err := l.collection.DeleteOne(ctx, bson.M{"_id": l.name, "instanceId": holder})
	if err != nil {
		return false, fmt.Errorf("release %s: %w", l.name, err)
	}
	return result.DeletedCount > 0, nil
}

func (l *MongoLock) Holder(ctx context.Context) (string, error) {
	var doc LockDocument
	err := l.collection.FindOne(ctx, bson.M{"_id": l.name, "expiresAt": bson.M{"$gt": l.now()}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.InstanceID, nil
}
