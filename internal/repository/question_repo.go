package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// MongoQuestionRepository implements QuestionRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoQuestionRepository struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepository creates a new MongoDB question repository
func NewMongoQuestionRepository(db *mongo.Database) *MongoQuestionRepository {
	return &MongoQuestionRepository{
		collection: db.Collection(models.Question{}.CollectionName()),
	}
}

// Create creates a new question
func (r *MongoQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	question.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, question)
	return err
}

// GetByID finds a question by ID
func (r *MongoQuestionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var question models.Question
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Update updates a question
func (r *MongoQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	question.BeforeUpdate()
	filter := bson.M{"_id": question.ID}
	update := bson.M{"$set": question}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}

// Delete deletes a question
func (r *MongoQuestionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}

// ListBySurvey lists all questions for a survey ordered by (section, order)
func (r *MongoQuestionRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Question, error) {
	filter := bson.M{"survey_id": surveyID}
	opts := options.Find().SetSort(bson.D{
		{Key: "section_id", Value: 1},
		{Key: "order", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ListBySection lists questions of one section ordered ascending
func (r *MongoQuestionRepository) ListBySection(ctx context.Context, surveyID primitive.ObjectID, sectionID string) ([]models.Question, error) {
	filter := bson.M{"survey_id": surveyID, "section_id": sectionID}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// UpdateOrders rewrites the order field of the given questions
// #IMPLEMENTATION_DECISION: Bulk write keeps renumbering a single round trip
func (r *MongoQuestionRepository) UpdateOrders(ctx context.Context, surveyID primitive.ObjectID, orders map[primitive.ObjectID]int) error {
	if len(orders) == 0 {
		return nil
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(orders))
	for id, order := range orders {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id, "survey_id": surveyID}).
			SetUpdate(bson.M{"$set": bson.M{"order": order, "updated_at": now}}))
	}

	_, err := r.collection.BulkWrite(ctx, writes)
	return err
}

// DeleteBySection deletes all questions of a section
func (r *MongoQuestionRepository) DeleteBySection(ctx context.Context, surveyID primitive.ObjectID, sectionID string) (int64, error) {
	filter := bson.M{"survey_id": surveyID, "section_id": sectionID}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// CountBySurvey counts questions for a survey
func (r *MongoQuestionRepository) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"survey_id": surveyID})
}
