package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// MongoResponseRepository implements ResponseRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoResponseRepository struct {
	collection *mongo.Collection
}

// NewMongoResponseRepository creates a new MongoDB response repository
func NewMongoResponseRepository(db *mongo.Database) *MongoResponseRepository {
	return &MongoResponseRepository{
		collection: db.Collection(models.Response{}.CollectionName()),
	}
}

// Create creates a new response
func (r *MongoResponseRepository) Create(ctx context.Context, response *models.Response) error {
	response.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, response)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrTokenAlreadyExists
	}
	return err
}

// GetByID finds a response by ID
func (r *MongoResponseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Response, error) {
	var response models.Response
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetBySession finds the response matching a session bag.
// #BUSINESS_RULE: Token, survey, and response ID must all agree or the session is stale
func (r *MongoResponseRepository) GetBySession(ctx context.Context, token string, surveyID, responseID primitive.ObjectID) (*models.Response, error) {
	var response models.Response
	filter := bson.M{
		"_id":              responseID,
		"survey_id":        surveyID,
		"respondent_token": token,
	}
	err := r.collection.FindOne(ctx, filter).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrSessionStale
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Update updates a response
func (r *MongoResponseRepository) Update(ctx context.Context, response *models.Response) error {
	response.BeforeUpdate()
	filter := bson.M{"_id": response.ID}
	update := bson.M{"$set": response}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrResponseNotFound
	}
	return nil
}

// ListBySurvey lists responses for a survey
func (r *MongoResponseRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID, status *models.ResponseStatus, opts PaginationOptions) (*PaginatedResult[models.Response], error) {
	opts = normalizePagination(opts)

	filter := bson.M{"survey_id": surveyID}
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

	responses := []models.Response{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}

	return newPaginatedResult(responses, total, opts), nil
}

// CountBySurvey counts responses for a survey
func (r *MongoResponseRepository) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID, status *models.ResponseStatus) (int64, error) {
	filter := bson.M{"survey_id": surveyID}
	if status != nil {
		filter["status"] = *status
	}
	return r.collection.CountDocuments(ctx, filter)
}
