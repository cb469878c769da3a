package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// Seeder handles database seeding operations
// #SEED_DATA: Default admin account and a demo wellbeing survey
type Seeder struct {
	db *mongo.Database
}

// NewSeeder creates a new database seeder
func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed operations
func (s *Seeder) SeedAll(ctx context.Context) error {
	log.Println("Starting database seeding...")

	if err := s.SeedAdminUser(ctx); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := s.SeedDemoSurvey(ctx); err != nil {
		return fmt.Errorf("failed to seed demo survey: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

// SeedAdminUser creates the default administrator if no user exists
// #SECURITY_CONCERN: The default password must be changed after first login
func (s *Seeder) SeedAdminUser(ctx context.Context) error {
	collection := s.db.Collection(models.User{}.CollectionName())

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Users already exist, skipping admin seeding")
		return nil
	}

	admin := &models.User{
		Email: "admin@example.com",
		Name:  "Administrator",
	}
	admin.BeforeCreate()
	if err := admin.SetPassword("changeme-now"); err != nil {
		return err
	}

	if _, err := collection.InsertOne(ctx, admin); err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", admin.Email)
	return nil
}

// SeedDemoSurvey creates the SURVEY001 demo survey if it does not exist
func (s *Seeder) SeedDemoSurvey(ctx context.Context) error {
	surveys := s.db.Collection(models.Survey{}.CollectionName())

	count, err := surveys.CountDocuments(ctx, bson.M{"code": "SURVEY001"})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Demo survey already exists, skipping seeding")
		return nil
	}

	survey := &models.Survey{
		Code:        "SURVEY001",
		Title:       "Workplace Wellbeing Check",
		Description: "Short demo survey used for development and smoke tests",
		Visibility:  models.SurveyVisibilityPublic,
	}
	survey.BeforeCreate()
	section := survey.AddSection(models.SurveySection{Title: "Wellbeing"})
	if err := survey.Publish(); err != nil {
		return err
	}

	if _, err := surveys.InsertOne(ctx, survey); err != nil {
		return err
	}

	question := &models.Question{
		SurveyID:    survey.ID,
		SectionID:   section.ID,
		Text:        "How would you rate your overall wellbeing this month?",
		Type:        models.QuestionTypeSingleChoice,
		Required:    true,
		Order:       1,
		ScoreWeight: 2,
		Choices: []models.Choice{
			{Label: "Low", Value: "low", Score: 1},
			{Label: "Moderate", Value: "moderate", Score: 3},
			{Label: "High", Value: "high", Score: 5},
		},
	}
	question.BeforeCreate()

	questions := s.db.Collection(models.Question{}.CollectionName())
	if _, err := questions.InsertOne(ctx, question); err != nil {
		return err
	}

	category := &models.ResultCategory{
		Owner: models.NewSurveyOwner(survey.ID),
		Name:  "Wellbeing Brackets",
		Rules: []models.ResultCategoryRule{
			{ID: "rule-low", Operation: models.RuleOpLessThan, Score: 40, Title: "Perlu Perhatian", Color: "red"},
			{ID: "rule-high", Operation: models.RuleOpGreaterThan, Score: 70, Title: "Baik", Color: "green"},
			{ID: "rule-else", Operation: models.RuleOpElse, Title: "Sedang", Color: "yellow"},
		},
	}
	category.BeforeCreate()

	categories := s.db.Collection(models.ResultCategory{}.CollectionName())
	if _, err := categories.InsertOne(ctx, category); err != nil {
		return err
	}

	log.Printf("Seeded demo survey %s (published at %s)", survey.Code, time.Now().UTC().Format(time.RFC3339))
	return nil
}
