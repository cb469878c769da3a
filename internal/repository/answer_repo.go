package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// MongoAnswerRepository implements AnswerRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoAnswerRepository struct {
	collection *mongo.Collection
}

// NewMongoAnswerRepository creates a new MongoDB answer repository
func NewMongoAnswerRepository(db *mongo.Database) *MongoAnswerRepository {
	return &MongoAnswerRepository{
		collection: db.Collection(models.Answer{}.CollectionName()),
	}
}

// Upsert creates or replaces the answer keyed by (response_id, question_id).
// #BUSINESS_RULE: Re-answering a question overwrites the previous value, never duplicates
func (r *MongoAnswerRepository) Upsert(ctx context.Context, answer *models.Answer) error {
	answer.BeforeUpdate()
	filter := bson.M{
		"response_id": answer.ResponseID,
		"question_id": answer.QuestionID,
	}
	update := bson.M{
		"$set": bson.M{
			"choice_id":    answer.ChoiceID,
			"choice_ids":   answer.ChoiceIDs,
			"value_text":   answer.ValueText,
			"value_number": answer.ValueNumber,
			"answered_at":  answer.AnsweredAt,
			"updated_at":   answer.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"response_id": answer.ResponseID,
			"question_id": answer.QuestionID,
			"created_at":  answer.UpdatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// ListByResponse lists all answers of a response
func (r *MongoAnswerRepository) ListByResponse(ctx context.Context, responseID primitive.ObjectID) ([]models.Answer, error) {
	filter := bson.M{"response_id": responseID}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	answers := []models.Answer{}
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// CountByResponse counts answers for a response
func (r *MongoAnswerRepository) CountByResponse(ctx context.Context, responseID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"response_id": responseID})
}

// DeleteByResponse deletes all answers of a response
func (r *MongoAnswerRepository) DeleteByResponse(ctx context.Context, responseID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"response_id": responseID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
