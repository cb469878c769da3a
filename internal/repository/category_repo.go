package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// MongoCategoryRepository implements CategoryRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a new MongoDB result category repository
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{
		collection: db.Collection(models.ResultCategory{}.CollectionName()),
	}
}

// Create creates a new category
func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.ResultCategory) error {
	category.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, category)
	return err
}

// GetByID finds a category by ID
func (r *MongoCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ResultCategory, error) {
	var category models.ResultCategory
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update updates a category
func (r *MongoCategoryRepository) Update(ctx context.Context, category *models.ResultCategory) error {
	category.BeforeUpdate()
	filter := bson.M{"_id": category.ID}
	update := bson.M{"$set": category}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

// Delete deletes a category
func (r *MongoCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

// ListByOwner lists the categories of an owner in creation order.
// #BUSINESS_RULE: Creation order is the evaluation order for rule resolution
func (r *MongoCategoryRepository) ListByOwner(ctx context.Context, owner models.CategoryOwner) ([]models.ResultCategory, error) {
	filter := bson.M{
		"owner.type":      owner.Type,
		"owner.survey_id": owner.SurveyID,
	}
	if owner.Type == models.CategoryOwnerSection {
		filter["owner.section_id"] = owner.SectionID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.ResultCategory{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
