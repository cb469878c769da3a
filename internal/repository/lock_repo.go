package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// MongoLockRepository implements LockRepository for MongoDB
// #IMPLEMENTATION_DECISION: The unique index on lock_key is the arbiter; a duplicate
// key error on insert means another operation already holds the lock
type MongoLockRepository struct {
	collection *mongo.Collection
}

// NewMongoLockRepository creates a new MongoDB lock repository
func NewMongoLockRepository(db *mongo.Database) *MongoLockRepository {
	return &MongoLockRepository{
		collection: db.Collection(models.SurveyLock{}.CollectionName()),
	}
}

// Insert inserts a lock row; returns ErrLockNotAcquired on a key collision
func (r *MongoLockRepository) Insert(ctx context.Context, lock *models.SurveyLock) error {
	lock.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, lock)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrLockNotAcquired
	}
	return err
}

// GetByKey finds a lock by key
func (r *MongoLockRepository) GetByKey(ctx context.Context, lockKey string) (*models.SurveyLock, error) {
	var lock models.SurveyLock
	filter := bson.M{"lock_key": lockKey}
	err := r.collection.FindOne(ctx, filter).Decode(&lock)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrLockNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

// DeleteByKey deletes a lock; releasing an absent lock is not an error
func (r *MongoLockRepository) DeleteByKey(ctx context.Context, lockKey string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"lock_key": lockKey})
	return err
}

// DeleteExpired removes all locks whose expiry has passed.
// The TTL index does this eventually; callers sweep before acquiring so a
// crashed holder never blocks longer than the lock timeout.
func (r *MongoLockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{"expires_at": bson.M{"$lt": now}}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// ListActive lists non-expired locks ordered by acquisition time
func (r *MongoLockRepository) ListActive(ctx context.Context, now time.Time) ([]models.SurveyLock, error) {
	filter := bson.M{"expires_at": bson.M{"$gte": now}}
	opts := options.Find().SetSort(bson.D{{Key: "acquired_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	locks := []models.SurveyLock{}
	if err := cursor.All(ctx, &locks); err != nil {
		return nil, err
	}
	return locks, nil
}
