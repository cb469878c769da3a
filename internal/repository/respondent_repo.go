package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// MongoRespondentRepository implements RespondentRepository for MongoDB
type MongoRespondentRepository struct {
	collection *mongo.Collection
}

// NewMongoRespondentRepository creates a new MongoDB respondent repository
func NewMongoRespondentRepository(db *mongo.Database) *MongoRespondentRepository {
	return &MongoRespondentRepository{
		collection: db.Collection(models.Respondent{}.CollectionName()),
	}
}

// Create creates a new respondent
func (r *MongoRespondentRepository) Create(ctx context.Context, respondent *models.Respondent) error {
	respondent.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, respondent)
	return err
}

// GetByID finds a respondent by ID
func (r *MongoRespondentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Respondent, error) {
	var respondent models.Respondent
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&respondent)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrRespondentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &respondent, nil
}

// Update updates a respondent
func (r *MongoRespondentRepository) Update(ctx context.Context, respondent *models.Respondent) error {
	respondent.BeforeUpdate()
	filter := bson.M{"_id": respondent.ID}
	update := bson.M{"$set": respondent}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrRespondentNotFound
	}
	return nil
}
