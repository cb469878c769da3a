// Package main provides a CLI tool to seed the survey database with an
// admin user and the demo survey.
// Usage: go run cmd/seed-survey/main.go -email "admin@example.com" -password "..."
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuesioner-tools/survey_backend/internal/database"
	"github.com/kuesioner-tools/survey_backend/internal/models"
)

func main() {
	email := flag.String("email", "", "Admin user email (required unless -demo-only)")
	password := flag.String("password", "", "Admin user password (required unless -demo-only)")
	name := flag.String("name", "Administrator", "Admin user display name")
	demoOnly := flag.Bool("demo-only", false, "Only seed the demo survey, skip the admin user")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir)")
	dryRun := flag.Bool("dry-run", false, "Print what would be created without writing to database")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Seeds the survey database with an admin user and the demo wellbeing survey.\n\n")
		fmt.Fprintf(os.Stderr, "Configuration is loaded from .env file and/or environment variables.\n")
		fmt.Fprintf(os.Stderr, "Environment variables take precedence over .env file values.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  SURVEY_DATABASE_URI   MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  SURVEY_DATABASE_NAME  Database name (default: survey)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -email \"admin@example.com\" -password \"change-me-please\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -demo-only\n", os.Args[0])
	}

	flag.Parse()

	loadEnvFile(*envFile)

	if !*demoOnly {
		if *email == "" {
			log.Fatal("Error: -email is required")
		}
		if !isValidEmail(*email) {
			log.Fatalf("Error: invalid email format: %s", *email)
		}
		if len(*password) < 12 {
			log.Fatal("Error: -password must be at least 12 characters")
		}
	}

	dbURI := os.Getenv("SURVEY_DATABASE_URI")
	if dbURI == "" {
		log.Fatal("Error: SURVEY_DATABASE_URI environment variable is required")
	}
	dbName := os.Getenv("SURVEY_DATABASE_NAME")
	if dbName == "" {
		dbName = "survey"
	}

	if *dryRun {
		if !*demoOnly {
			fmt.Println("=== Admin User ===")
			fmt.Printf("  Email: %s\n", *email)
			fmt.Printf("  Name:  %s\n", *name)
			fmt.Println()
		}
		fmt.Println("=== Demo Survey ===")
		fmt.Println("  Code: SURVEY001 (wellbeing check, see database seeder)")
		fmt.Println()
		fmt.Println("[DRY RUN] No changes made to database")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(dbURI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			log.Printf("Error disconnecting from MongoDB: %v", disconnectErr)
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	db := client.Database(dbName)

	if !*demoOnly {
		if err := createAdmin(ctx, db, *email, *password, *name); err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
	}

	seeder := database.NewSeeder(db)
	if err := seeder.SeedDemoSurvey(ctx); err != nil {
		log.Fatalf("Failed to seed demo survey: %v", err)
	}

	fmt.Println()
	fmt.Println("Seeding complete!")
}

// createAdmin inserts an active admin user, refusing duplicates
func createAdmin(ctx context.Context, db *mongo.Database, email, password, name string) error {
	collection := db.Collection(models.User{}.CollectionName())

	var existing models.User
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return fmt.Errorf("user with email %q already exists (ID: %s)", email, existing.ID.Hex())
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	user := &models.User{
		Email: email,
		Name:  name,
	}
	user.BeforeCreate()
	if err := user.SetPassword(password); err != nil {
		return err
	}

	if _, err := collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	fmt.Printf("✓ Created admin user: %s (%s)\n", user.Email, user.ID.Hex())
	return nil
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) {
	if path == "" {
		cwd, _ := os.Getwd()
		if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
			path = ".env"
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("Error loading .env file: %v", err)
		}
	}
}
