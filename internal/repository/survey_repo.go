package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// MongoSurveyRepository implements SurveyRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoSurveyRepository struct {
	collection *mongo.Collection
}

// NewMongoSurveyRepository creates a new MongoDB survey repository
func NewMongoSurveyRepository(db *mongo.Database) *MongoSurveyRepository {
	return &MongoSurveyRepository{
		collection: db.Collection(models.Survey{}.CollectionName()),
	}
}

// Create creates a new survey
func (r *MongoSurveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	survey.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, survey)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrCodeAlreadyExists
	}
	return err
}

// GetByID finds a survey by ID
func (r *MongoSurveyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	var survey models.Survey
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// GetByCode finds a survey by its unique code
func (r *MongoSurveyRepository) GetByCode(ctx context.Context, code string) (*models.Survey, error) {
	var survey models.Survey
	filter := bson.M{"code": code}
	err := r.collection.FindOne(ctx, filter).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// GetByCodeAndStatus finds a survey by code restricted to a status
func (r *MongoSurveyRepository) GetByCodeAndStatus(ctx context.Context, code string, status models.SurveyStatus) (*models.Survey, error) {
	var survey models.Survey
	filter := bson.M{"code": code, "status": status}
	err := r.collection.FindOne(ctx, filter).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// Update updates a survey
func (r *MongoSurveyRepository) Update(ctx context.Context, survey *models.Survey) error {
	survey.BeforeUpdate()
	filter := bson.M{"_id": survey.ID}
	update := bson.M{"$set": survey}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrCodeAlreadyExists
	}
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrSurveyNotFound
	}
	return nil
}

// Delete deletes a survey
func (r *MongoSurveyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrSurveyNotFound
	}
	return nil
}

// List lists surveys with optional status filtering and pagination
func (r *MongoSurveyRepository) List(ctx context.Context, status *models.SurveyStatus, opts PaginationOptions) (*PaginatedResult[models.Survey], error) {
	opts = normalizePagination(opts)

	filter := bson.M{}
	if status != nil {
		filter["status"] = *status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions(opts))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := []models.Survey{}
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}

	return newPaginatedResult(surveys, total, opts), nil
}
