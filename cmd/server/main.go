// @title Survey Backend API
// @version 1.0
// @description Survey platform API - respondents take published surveys through a guided flow; administrators manage surveys, questions, and result categories
// @termsOfService http://swagger.io/terms/

// @contact.name Survey Backend Support
// @contact.email support@kuesioner.tools

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

// Package main is the entry point for the Survey Backend API server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kuesioner-tools/survey_backend/internal/auth"
	"github.com/kuesioner-tools/survey_backend/internal/config"
	"github.com/kuesioner-tools/survey_backend/internal/database"
	"github.com/kuesioner-tools/survey_backend/internal/handlers"
	"github.com/kuesioner-tools/survey_backend/internal/middleware"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
	"github.com/kuesioner-tools/survey_backend/internal/services"

	// Swagger docs
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kuesioner-tools/survey_backend/docs"
)

// Build-time variables (set via ldflags)
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env in development; ignore when absent
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	ctx := context.Background()
	dbCfg := database.Config{
		URI:                    cfg.DatabaseURI,
		Database:               cfg.DatabaseName,
		MaxPoolSize:            100,
		MinPoolSize:            10,
		MaxConnIdleTime:        30 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
	}

	dbClient, err := database.NewClient(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize JWT service early (before defer) to avoid exitAfterDefer issue
	jwtCfg := auth.JWTConfig{
		Secret:             cfg.JWTSecret,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		SessionExpiry:      cfg.SessionExpiry,
		Issuer:             "survey-backend",
	}

	jwtService, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	defer func() {
		if closeErr := dbClient.Close(ctx); closeErr != nil {
			log.Printf("Error closing database connection: %v", closeErr)
		}
	}()

	// Ensure indexes
	log.Println("Creating database indexes...")
	if indexErr := dbClient.EnsureIndexes(ctx); indexErr != nil {
		log.Printf("Warning: Failed to create indexes: %v", indexErr)
	}

	// Seed initial data (admin user and demo survey)
	log.Println("Seeding initial data...")
	if seedErr := dbClient.SeedData(ctx); seedErr != nil {
		log.Printf("Warning: Failed to seed data: %v", seedErr)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbClient)
	surveyRepo := repository.NewSurveyRepository(dbClient)
	questionRepo := repository.NewQuestionRepository(dbClient)
	respondentRepo := repository.NewRespondentRepository(dbClient)
	responseRepo := repository.NewResponseRepository(dbClient)
	answerRepo := repository.NewAnswerRepository(dbClient)
	scoreRepo := repository.NewScoreRepository(dbClient)
	categoryRepo := repository.NewCategoryRepository(dbClient)
	lockRepo := repository.NewLockRepository(dbClient)

	// Initialize services
	lockService := services.NewLockService(lockRepo, cfg.LockTimeout)
	scoreService := services.NewScoreService(
		surveyRepo,
		questionRepo,
		answerRepo,
		scoreRepo,
		categoryRepo,
	)
	flowService := services.NewFlowService(
		surveyRepo,
		questionRepo,
		respondentRepo,
		responseRepo,
		answerRepo,
		scoreService,
		lockService,
	)
	surveyService := services.NewSurveyService(
		surveyRepo,
		questionRepo,
		respondentRepo,
		responseRepo,
		answerRepo,
		categoryRepo,
		scoreService,
		lockService,
	)
	authService := services.NewAuthService(userRepo, jwtService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dbClient, Version)
	authHandler := handlers.NewAuthHandler(authService)
	surveyHandler := handlers.NewSurveyHandler(surveyService)
	flowHandler := handlers.NewFlowHandler(flowService, jwtService, responseRepo, surveyRepo)

	// Create Gin router
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecureHeaders())

	// Register health routes (not under /api/v1)
	healthHandler.RegisterRoutes(router)

	// Register Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create API v1 group
	apiV1 := router.Group("/api/v1")

	// Create auth middleware and entry rate limiter
	authMiddleware := middleware.AuthMiddleware(jwtService)
	entryLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	// Register routes
	authHandler.RegisterRoutes(apiV1, authMiddleware)
	surveyHandler.RegisterRoutes(apiV1, authMiddleware)
	flowHandler.RegisterRoutes(apiV1, entryLimiter.RateLimit())

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Survey Backend API server v%s on port %s", Version, cfg.ServerPort)
		log.Printf("Build: %s | Commit: %s", BuildTime, GitCommit)
		log.Printf("Environment: %s", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}
