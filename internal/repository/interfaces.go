// Package repository defines interfaces for data access and their MongoDB implementations
// #ORM_PATTERN: Repository pattern with interfaces for testability and abstraction
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// PaginationOptions contains pagination parameters
type PaginationOptions struct {
	Page    int
	Limit   int
	SortBy  string
	SortDir int // 1 for ascending, -1 for descending
}

// DefaultPaginationOptions returns default pagination settings
// #DATA_ASSUMPTION: Pagination defaults to 20 items per page
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{
		Page:    1,
		Limit:   20,
		SortBy:  "created_at",
		SortDir: -1,
	}
}

// PaginatedResult contains paginated query results
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// SurveyRepository defines operations for surveys
// #QUERY_INTERFACE: Survey data access patterns
type SurveyRepository interface {
	// Create creates a new survey
	Create(ctx context.Context, survey *models.Survey) error

	// GetByID finds a survey by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)

	// GetByCode finds a survey by its unique code
	GetByCode(ctx context.Context, code string) (*models.Survey, error)

	// GetByCodeAndStatus finds a survey by code restricted to a status
	GetByCodeAndStatus(ctx context.Context, code string, status models.SurveyStatus) (*models.Survey, error)

	// Update updates a survey
	Update(ctx context.Context, survey *models.Survey) error

	// Delete deletes a survey (draft only, enforced by the service)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// List lists surveys with optional status filtering and pagination
	List(ctx context.Context, status *models.SurveyStatus, opts PaginationOptions) (*PaginatedResult[models.Survey], error)
}

// QuestionRepository defines operations for questions
// #QUERY_INTERFACE: Question data access patterns
type QuestionRepository interface {
	// Create creates a new question
	Create(ctx context.Context, question *models.Question) error

	// GetByID finds a question by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error)

	// Update updates a question
	Update(ctx context.Context, question *models.Question) error

	// Delete deletes a question
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListBySurvey lists all questions for a survey ordered by (section, order)
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Question, error)

	// ListBySection lists questions of one section ordered ascending
	ListBySection(ctx context.Context, surveyID primitive.ObjectID, sectionID string) ([]models.Question, error)

	// UpdateOrders rewrites the order field of the given questions
	UpdateOrders(ctx context.Context, surveyID primitive.ObjectID, orders map[primitive.ObjectID]int) error

	// DeleteBySection deletes all questions of a section
	DeleteBySection(ctx context.Context, surveyID primitive.ObjectID, sectionID string) (int64, error)

	// CountBySurvey counts questions for a survey
	CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error)
}

// RespondentRepository defines operations for respondent profiles
type RespondentRepository interface {
	// Create creates a new respondent
	Create(ctx context.Context, respondent *models.Respondent) error

	// GetByID finds a respondent by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Respondent, error)

	// Update updates a respondent
	Update(ctx context.Context, respondent *models.Respondent) error
}

// ResponseRepository defines operations for survey responses
// #QUERY_INTERFACE: Response data access patterns
type ResponseRepository interface {
	// Create creates a new response
	Create(ctx context.Context, response *models.Response) error

	// GetByID finds a response by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Response, error)

	// GetBySession finds the response matching a session bag: token, survey, and response ID
	// must all agree. Used by the session guard on every step-gated request.
	GetBySession(ctx context.Context, token string, surveyID, responseID primitive.ObjectID) (*models.Response, error)

	// Update updates a response
	Update(ctx context.Context, response *models.Response) error

	// ListBySurvey lists responses for a survey
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID, status *models.ResponseStatus, opts PaginationOptions) (*PaginatedResult[models.Response], error)

	// CountBySurvey counts responses for a survey
	CountBySurvey(ctx context.Context, surveyID primitive.ObjectID, status *models.ResponseStatus) (int64, error)
}

// AnswerRepository defines operations for answers
// #QUERY_INTERFACE: Answer data access patterns
type AnswerRepository interface {
	// Upsert creates or replaces the answer keyed by (response_id, question_id)
	Upsert(ctx context.Context, answer *models.Answer) error

	// ListByResponse lists all answers of a response
	ListByResponse(ctx context.Context, responseID primitive.ObjectID) ([]models.Answer, error)

	// CountByResponse counts answers for a response
	CountByResponse(ctx context.Context, responseID primitive.ObjectID) (int64, error)

	// DeleteByResponse deletes all answers of a response
	DeleteByResponse(ctx context.Context, responseID primitive.ObjectID) (int64, error)
}

// ScoreRepository defines operations for response scores
// #QUERY_INTERFACE: Score data access patterns
type ScoreRepository interface {
	// Upsert creates or replaces the score keyed by response_id
	Upsert(ctx context.Context, score *models.ResponseScore) error

	// GetByResponse finds the score of a response
	GetByResponse(ctx context.Context, responseID primitive.ObjectID) (*models.ResponseScore, error)
}

// CategoryRepository defines operations for result categories
// #QUERY_INTERFACE: Result category data access patterns
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *models.ResultCategory) error

	// GetByID finds a category by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ResultCategory, error)

	// Update updates a category
	Update(ctx context.Context, category *models.ResultCategory) error

	// Delete deletes a category
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListByOwner lists the categories of an owner in creation order
	ListByOwner(ctx context.Context, owner models.CategoryOwner) ([]models.ResultCategory, error)
}

// LockRepository defines operations for advisory survey locks
// #QUERY_INTERFACE: Lock rows are ephemeral; the unique lock_key index arbitrates races
type LockRepository interface {
	// Insert inserts a lock row; returns models.ErrLockNotAcquired on a key collision
	Insert(ctx context.Context, lock *models.SurveyLock) error

	// GetByKey finds a lock by key
	GetByKey(ctx context.Context, lockKey string) (*models.SurveyLock, error)

	// DeleteByKey deletes a lock; idempotent
	DeleteByKey(ctx context.Context, lockKey string) error

	// DeleteExpired removes all locks whose expiry has passed
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// ListActive lists non-expired locks ordered by acquisition time
	ListActive(ctx context.Context, now time.Time) ([]models.SurveyLock, error)
}

// UserRepository defines operations for admin users
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID finds a user by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// GetByEmail finds a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update updates a user
	Update(ctx context.Context, user *models.User) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
}
