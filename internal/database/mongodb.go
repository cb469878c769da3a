// Package database provides MongoDB connection and initialization utilities
// #SCHEMA_IMPLEMENTATION: Using MongoDB with connection pooling and replica set support
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names as constants
// #INTEGRATION_POINT: All repositories use these collection names
const (
	CollectionSurveys          = "surveys"
	CollectionQuestions        = "questions"
	CollectionRespondents      = "respondents"
	CollectionResponses        = "responses"
	CollectionAnswers          = "answers"
	CollectionResponseScores   = "response_scores"
	CollectionResultCategories = "result_categories"
	CollectionSurveyLocks      = "survey_locks"
	CollectionUsers            = "users"
)

// Config holds MongoDB connection configuration
type Config struct {
	URI                    string
	Database               string
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() Config {
	return Config{
		URI:                    "mongodb://localhost:27017",
		Database:               "survey",
		MaxPoolSize:            100,
		MinPoolSize:            10,
		MaxConnIdleTime:        30 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}
}

// Client wraps the MongoDB client with helper methods
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

// NewClient creates a new MongoDB client
func NewClient(cfg Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	// #IMPLEMENTATION_DECISION: Using connection pooling for performance
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

// Database returns the MongoDB database
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Collection returns a MongoDB collection
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// Ping verifies the MongoDB connection
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// HealthCheck performs a health check on the database connection
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// EnsureIndexes creates all required database indexes
// #IMPLEMENTATION_DECISION: Indexes created on application startup, idempotent
func (c *Client) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: CollectionSurveys,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "code", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: "status", Value: 1}},
				},
			},
		},
		{
			collection: CollectionQuestions,
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "survey_id", Value: 1},
						{Key: "section_id", Value: 1},
						{Key: "order", Value: 1},
					},
				},
			},
		},
		{
			collection: CollectionResponses,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "respondent_token", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{
						{Key: "survey_id", Value: 1},
						{Key: "status", Value: 1},
					},
				},
			},
		},
		{
			collection: CollectionAnswers,
			models: []mongo.IndexModel{
				// Upsert target: last writer wins per question within a response
				{
					Keys: bson.D{
						{Key: "response_id", Value: 1},
						{Key: "question_id", Value: 1},
					},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			collection: CollectionResponseScores,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "response_id", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: "survey_id", Value: 1}},
				},
			},
		},
		{
			collection: CollectionResultCategories,
			models: []mongo.IndexModel{
				{
					Keys: bson.D{
						{Key: "owner.type", Value: 1},
						{Key: "owner.survey_id", Value: 1},
						{Key: "owner.section_id", Value: 1},
						{Key: "created_at", Value: 1},
					},
				},
			},
		},
		{
			collection: CollectionSurveyLocks,
			models: []mongo.IndexModel{
				// Unique key makes concurrent acquire a duplicate-key race the driver settles
				{
					Keys:    bson.D{{Key: "lock_key", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "expires_at", Value: 1}},
					Options: options.Index().SetExpireAfterSeconds(0), // TTL fallback
				},
			},
		},
		{
			collection: CollectionUsers,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
			},
		},
	}

	for _, idx := range indexes {
		collection := c.Collection(idx.collection)
		_, err := collection.Indexes().CreateMany(ctx, idx.models)
		if err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", idx.collection, err)
		}
	}

	return nil
}

// SeedData seeds initial data (admin user and a demo survey)
// #IMPLEMENTATION_DECISION: Only seeds if data doesn't exist (idempotent)
func (c *Client) SeedData(ctx context.Context) error {
	seeder := NewSeeder(c.database)
	return seeder.SeedAll(ctx)
}
