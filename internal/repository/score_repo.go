package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// MongoScoreRepository implements ScoreRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoScoreRepository struct {
	collection *mongo.Collection
}

// NewMongoScoreRepository creates a new MongoDB score repository
func NewMongoScoreRepository(db *mongo.Database) *MongoScoreRepository {
	return &MongoScoreRepository{
		collection: db.Collection(models.ResponseScore{}.CollectionName()),
	}
}

// Upsert creates or replaces the score keyed by response_id.
// #BUSINESS_RULE: Rescoring overwrites the previous score document, never appends
func (r *MongoScoreRepository) Upsert(ctx context.Context, score *models.ResponseScore) error {
	score.BeforeUpdate()
	filter := bson.M{"response_id": score.ResponseID}
	update := bson.M{
		"$set": bson.M{
			"survey_id":          score.SurveyID,
			"total_score":        score.TotalScore,
			"max_possible_score": score.MaxPossibleScore,
			"percentage":         score.Percentage,
			"section_scores":     score.SectionScores,
			"result_category_id": score.ResultCategoryID,
			"result_title":       score.ResultTitle,
			"result_color":       score.ResultColor,
			"calculated_at":      score.CalculatedAt,
			"updated_at":         score.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":         primitive.NewObjectID(),
			"response_id": score.ResponseID,
			"created_at":  score.UpdatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetByResponse finds the score of a response
func (r *MongoScoreRepository) GetByResponse(ctx context.Context, responseID primitive.ObjectID) (*models.ResponseScore, error) {
	var score models.ResponseScore
	filter := bson.M{"response_id": responseID}
	err := r.collection.FindOne(ctx, filter).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrScoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}
