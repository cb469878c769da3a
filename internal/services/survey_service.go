package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
)

// SurveyService handles administrative survey management
// #INTEGRATION_POINT: Used by the admin survey handler
type SurveyService interface {
	// CreateSurvey creates a new draft survey
	CreateSurvey(ctx context.Context, req CreateSurveyRequest) (*models.Survey, error)

	// GetSurvey retrieves a survey by ID
	GetSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)

	// ListSurveys lists surveys with optional status filtering
	ListSurveys(ctx context.Context, status *models.SurveyStatus, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error)

	// UpdateSurvey updates a draft survey's basic info
	UpdateSurvey(ctx context.Context, id primitive.ObjectID, req UpdateSurveyRequest) (*models.Survey, error)

	// DeleteSurvey deletes a draft survey and its questions
	DeleteSurvey(ctx context.Context, id primitive.ObjectID) error

	// PublishSurvey transitions a draft survey to active
	PublishSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)

	// CloseSurvey transitions an active survey to closed
	CloseSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)

	// AddSection adds a section to a draft survey
	AddSection(ctx context.Context, surveyID primitive.ObjectID, req SectionRequest) (*models.Survey, error)

	// UpdateSection updates a section's title and description
	UpdateSection(ctx context.Context, surveyID primitive.ObjectID, sectionID string, req SectionRequest) (*models.Survey, error)

	// RemoveSection removes an empty section from a draft survey
	RemoveSection(ctx context.Context, surveyID primitive.ObjectID, sectionID string) (*models.Survey, error)

	// ReorderSections rearranges sections to the given ID sequence
	ReorderSections(ctx context.Context, surveyID primitive.ObjectID, orderedIDs []string) (*models.Survey, error)

	// CreateQuestion adds a question to a section of a draft survey
	CreateQuestion(ctx context.Context, surveyID primitive.ObjectID, req QuestionRequest) (*models.Question, error)

	// UpdateQuestion updates a question
	UpdateQuestion(ctx context.Context, surveyID, questionID primitive.ObjectID, req QuestionRequest) (*models.Question, error)

	// DeleteQuestion deletes a question and renumbers its section
	DeleteQuestion(ctx context.Context, surveyID, questionID primitive.ObjectID) error

	// ListQuestions lists a survey's questions ordered by (section, order)
	ListQuestions(ctx context.Context, surveyID primitive.ObjectID) ([]models.Question, error)

	// CreateCategory creates a result category for a survey or section
	CreateCategory(ctx context.Context, surveyID primitive.ObjectID, req CategoryRequest) (*models.ResultCategory, error)

	// UpdateCategory updates a result category
	UpdateCategory(ctx context.Context, surveyID, categoryID primitive.ObjectID, req CategoryRequest) (*models.ResultCategory, error)

	// DeleteCategory deletes a result category
	DeleteCategory(ctx context.Context, surveyID, categoryID primitive.ObjectID) error

	// ListCategories lists categories owned by a survey or one of its sections
	ListCategories(ctx context.Context, surveyID primitive.ObjectID, sectionID string) ([]models.ResultCategory, error)

	// ListResponses lists responses for a survey
	ListResponses(ctx context.Context, surveyID primitive.ObjectID, status *models.ResponseStatus, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error)

	// GetResponse returns one response with its respondent, answers, and score
	GetResponse(ctx context.Context, surveyID, responseID primitive.ObjectID) (*ResponseDetail, error)

	// AbandonResponse marks a non-terminal response as abandoned
	AbandonResponse(ctx context.Context, surveyID, responseID primitive.ObjectID) (*models.Response, error)

	// RescoreResponse recomputes the score of a completed response
	RescoreResponse(ctx context.Context, surveyID, responseID primitive.ObjectID) (*models.ResponseScore, error)
}

// CreateSurveyRequest carries the survey creation form
type CreateSurveyRequest struct {
	Code        string     `json:"code" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description,omitempty"`
	Visibility  string     `json:"visibility,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// UpdateSurveyRequest carries survey basic info updates
type UpdateSurveyRequest struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Visibility  string     `json:"visibility,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// SectionRequest carries a section create or update
type SectionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order,omitempty"`
}

// ChoiceRequest carries one answer choice
type ChoiceRequest struct {
	Label string  `json:"label" binding:"required"`
	Value string  `json:"value,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// QuestionRequest carries a question create or update
type QuestionRequest struct {
	SectionID   string          `json:"section_id" binding:"required"`
	Text        string          `json:"text" binding:"required"`
	HelpText    string          `json:"help_text,omitempty"`
	Type        string          `json:"type" binding:"required"`
	Required    bool            `json:"required"`
	Order       int             `json:"order,omitempty"`
	ScoreWeight float64         `json:"score_weight,omitempty"`
	Choices     []ChoiceRequest `json:"choices,omitempty"`
}

// RuleRequest carries one category rule
type RuleRequest struct {
	Operation string  `json:"operation" binding:"required"`
	Score     float64 `json:"score,omitempty"`
	Title     string  `json:"title" binding:"required"`
	Color     string  `json:"color,omitempty"`
}

// CategoryRequest carries a result category create or update
type CategoryRequest struct {
	SectionID   string        `json:"section_id,omitempty"`
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description,omitempty"`
	Rules       []RuleRequest `json:"rules" binding:"required"`
}

// ResponseDetail bundles one response with everything an admin reviews
type ResponseDetail struct {
	Response   *models.Response      `json:"response"`
	Respondent *models.Respondent    `json:"respondent,omitempty"`
	Answers    []models.Answer       `json:"answers"`
	Score      *models.ResponseScore `json:"score,omitempty"`
}

// surveyService implements SurveyService
type surveyService struct {
	surveyRepo     repository.SurveyRepository
	questionRepo   repository.QuestionRepository
	respondentRepo repository.RespondentRepository
	responseRepo   repository.ResponseRepository
	answerRepo     repository.AnswerRepository
	categoryRepo   repository.CategoryRepository
	scoreService   ScoreService
	lockService    LockService
}

// NewSurveyService creates a new survey service
func NewSurveyService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	respondentRepo repository.RespondentRepository,
	responseRepo repository.ResponseRepository,
	answerRepo repository.AnswerRepository,
	categoryRepo repository.CategoryRepository,
	scoreService ScoreService,
	lockService LockService,
) SurveyService {
	return &surveyService{
		surveyRepo:     surveyRepo,
		questionRepo:   questionRepo,
		respondentRepo: respondentRepo,
		responseRepo:   responseRepo,
		answerRepo:     answerRepo,
		categoryRepo:   categoryRepo,
		scoreService:   scoreService,
		lockService:    lockService,
	}
}

// CreateSurvey creates a new draft survey
func (s *surveyService) CreateSurvey(ctx context.Context, req CreateSurveyRequest) (*models.Survey, error) {
	survey := &models.Survey{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if req.Visibility != "" {
		visibility := models.SurveyVisibility(normalizeEnum(req.Visibility))
		if !visibility.IsValid() {
			return nil, models.ErrInvalidVisibility
		}
		survey.Visibility = visibility
	}

	if err := s.surveyRepo.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// GetSurvey retrieves a survey by ID
func (s *surveyService) GetSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	return s.surveyRepo.GetByID(ctx, id)
}

// ListSurveys lists surveys with optional status filtering
func (s *surveyService) ListSurveys(ctx context.Context, status *models.SurveyStatus, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error) {
	return s.surveyRepo.List(ctx, status, opts)
}

// getEditableSurvey loads a survey and verifies it can still be edited
func (s *surveyService) getEditableSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !survey.CanBeEdited() {
		return nil, models.ErrSurveyNotEditable
	}
	return survey, nil
}

// UpdateSurvey updates a draft survey's basic info
func (s *surveyService) UpdateSurvey(ctx context.Context, id primitive.ObjectID, req UpdateSurveyRequest) (*models.Survey, error) {
	survey, err := s.getEditableSurvey(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		survey.Title = req.Title
	}
	if req.Description != "" {
		survey.Description = req.Description
	}
	if req.Visibility != "" {
		visibility := models.SurveyVisibility(normalizeEnum(req.Visibility))
		if !visibility.IsValid() {
			return nil, models.ErrInvalidVisibility
		}
		survey.Visibility = visibility
	}
	if req.StartsAt != nil {
		survey.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		survey.EndsAt = req.EndsAt
	}

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// DeleteSurvey deletes a draft survey and its questions
// #BUSINESS_RULE: Published surveys are closed, never deleted, so responses survive
func (s *surveyService) DeleteSurvey(ctx context.Context, id primitive.ObjectID) error {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !survey.CanBeDeleted() {
		return models.ErrSurveyNotDeletable
	}

	for _, section := range survey.Sections {
		if _, err := s.questionRepo.DeleteBySection(ctx, survey.ID, section.ID); err != nil {
			return fmt.Errorf("failed to delete section questions: %w", err)
		}
	}
	return s.surveyRepo.Delete(ctx, id)
}

// PublishSurvey transitions a draft survey to active
func (s *surveyService) PublishSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := survey.Publish(); err != nil {
		return nil, err
	}
	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// CloseSurvey transitions an active survey to closed
func (s *surveyService) CloseSurvey(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := survey.Close(); err != nil {
		return nil, err
	}
	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// AddSection adds a section to a draft survey
func (s *surveyService) AddSection(ctx context.Context, surveyID primitive.ObjectID, req SectionRequest) (*models.Survey, error) {
	survey, err := s.getEditableSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	survey.AddSection(models.SurveySection{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	})

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// UpdateSection updates a section's title and description
func (s *surveyService) UpdateSection(ctx context.Context, surveyID primitive.ObjectID, sectionID string, req SectionRequest) (*models.Survey, error) {
	survey, err := s.getEditableSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	section := survey.GetSectionByID(sectionID)
	if section == nil {
		return nil, models.ErrSectionNotFound
	}
	section.Title = req.Title
	section.Description = req.Description

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// RemoveSection removes an empty section from a draft survey
// #BUSINESS_RULE: A section still holding questions cannot be removed
func (s *surveyService) RemoveSection(ctx context.Context, surveyID primitive.ObjectID, sectionID string) (*models.Survey, error) {
	survey, err := s.getEditableSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.GetSectionByID(sectionID) == nil {
		return nil, models.ErrSectionNotFound
	}

	questions, err := s.questionRepo.ListBySection(ctx, surveyID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list section questions: %w", err)
	}
	if len(questions) > 0 {
		return nil, models.ErrSectionNotEmpty
	}

	if err := survey.RemoveSection(sectionID); err != nil {
		return nil, err
	}
	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// ReorderSections rearranges sections to the given ID sequence
func (s *surveyService) ReorderSections(ctx context.Context, surveyID primitive.ObjectID, orderedIDs []string) (*models.Survey, error) {
	survey, err := s.getEditableSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if err := survey.ReorderSections(orderedIDs); err != nil {
		return nil, err
	}
	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// renumberSection rewrites a section's question orders to a contiguous 1..N range
// #DATA_ASSUMPTION: Runs after every question mutation so orders stay dense
func (s *surveyService) renumberSection(ctx context.Context, surveyID primitive.ObjectID, sectionID string) error {
	questions, err := s.questionRepo.ListBySection(ctx, surveyID, sectionID)
	if err != nil {
		return fmt.Errorf("failed to list section questions: %w", err)
	}

	orders := make(map[primitive.ObjectID]int, len(questions))
	for i := range questions {
		if questions[i].Order != i+1 {
			orders[questions[i].ID] = i + 1
		}
	}
	if len(orders) == 0 {
		return nil
	}
	return s.questionRepo.UpdateOrders(ctx, surveyID, orders)
}

// CreateQuestion adds a question to a section of a draft survey
func (s *surveyService) CreateQuestion(ctx context.Context, surveyID primitive.ObjectID, req QuestionRequest) (*models.Question, error) {
	survey, err := s.getEditableSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.GetSectionByID(req.SectionID) == nil {
		return nil, models.ErrSectionNotFound
	}

	existing, err := s.questionRepo.ListBySection(ctx, surveyID, req.SectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list section questions: %w", err)
	}

	order := req.Order
	if order <= 0 || order > len(existing)+1 {
		order = len(existing) + 1
	}

	question := &models.Question{
		SurveyID:    surveyID,
		SectionID:   req.SectionID,
		Text:        req.Text,
		HelpText:    req.HelpText,
		Type:        models.QuestionType(normalizeEnum(req.Type)),
		Required:    req.Required,
		Order:       order,
		ScoreWeight: req.ScoreWeight,
		Choices:     buildChoices(req.Choices),
	}
	if err := question.Validate(); err != nil {
		return nil, err
	}

	// Shift trailing questions down before inserting at the requested position
	shifts := make(map[primitive.ObjectID]int)
	for i := range existing {
		if existing[i].Order >= order {
			shifts[existing[i].ID] = existing[i].Order + 1
		}
	}
	if len(shifts) > 0 {
		if err := s.questionRepo.UpdateOrders(ctx, surveyID, shifts); err != nil {
			return nil, fmt.Errorf("failed to shift question orders: %w", err)
		}
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}
	if err := s.renumberSection(ctx, surveyID, req.SectionID); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion updates a question, renumbering both sections on a move
func (s *surveyService) UpdateQuestion(ctx context.Context, surveyID, questionID primitive.ObjectID, req QuestionRequest) (*models.Question, error) {
	survey, err := s.getEditableSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.SurveyID != surveyID {
		return nil, models.ErrQuestionNotFound
	}
	if survey.GetSectionByID(req.SectionID) == nil {
		return nil, models.ErrSectionNotFound
	}

	previousSection := question.SectionID
	question.SectionID = req.SectionID
	question.Text = req.Text
	question.HelpText = req.HelpText
	question.Type = models.QuestionType(normalizeEnum(req.Type))
	question.Required = req.Required
	question.ScoreWeight = req.ScoreWeight
	if req.Choices != nil {
		question.Choices = buildChoices(req.Choices)
	}
	if req.Order > 0 {
		question.Order = req.Order
	}
	if err := question.Validate(); err != nil {
		return nil, err
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, err
	}
	if err := s.renumberSection(ctx, surveyID, question.SectionID); err != nil {
		return nil, err
	}
	if previousSection != question.SectionID {
		if err := s.renumberSection(ctx, surveyID, previousSection); err != nil {
			return nil, err
		}
	}
	return question, nil
}

// DeleteQuestion deletes a question and renumbers its section
func (s *surveyService) DeleteQuestion(ctx context.Context, surveyID, questionID primitive.ObjectID) error {
	if _, err := s.getEditableSurvey(ctx, surveyID); err != nil {
		return err
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question.SurveyID != surveyID {
		return models.ErrQuestionNotFound
	}

	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return err
	}
	return s.renumberSection(ctx, surveyID, question.SectionID)
}

// ListQuestions lists a survey's questions ordered by (section, order)
func (s *surveyService) ListQuestions(ctx context.Context, surveyID primitive.ObjectID) ([]models.Question, error) {
	if _, err := s.surveyRepo.GetByID(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.questionRepo.ListBySurvey(ctx, surveyID)
}

// buildCategoryOwner resolves the owner reference from a request
func (s *surveyService) buildCategoryOwner(survey *models.Survey, sectionID string) (models.CategoryOwner, error) {
	if sectionID == "" {
		return models.NewSurveyOwner(survey.ID), nil
	}
	if survey.GetSectionByID(sectionID) == nil {
		return models.CategoryOwner{}, models.ErrSectionNotFound
	}
	return models.NewSectionOwner(survey.ID, sectionID), nil
}

// CreateCategory creates a result category for a survey or section
func (s *surveyService) CreateCategory(ctx context.Context, surveyID primitive.ObjectID, req CategoryRequest) (*models.ResultCategory, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	owner, err := s.buildCategoryOwner(survey, req.SectionID)
	if err != nil {
		return nil, err
	}

	category := &models.ResultCategory{
		Owner:       owner,
		Name:        req.Name,
		Description: req.Description,
		Rules:       buildRules(req.Rules),
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates a result category
func (s *surveyService) UpdateCategory(ctx context.Context, surveyID, categoryID primitive.ObjectID, req CategoryRequest) (*models.ResultCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Owner.SurveyID != surveyID {
		return nil, models.ErrCategoryNotFound
	}

	category.Name = req.Name
	category.Description = req.Description
	if req.Rules != nil {
		category.Rules = buildRules(req.Rules)
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a result category
func (s *surveyService) DeleteCategory(ctx context.Context, surveyID, categoryID primitive.ObjectID) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.Owner.SurveyID != surveyID {
		return models.ErrCategoryNotFound
	}
	return s.categoryRepo.Delete(ctx, categoryID)
}

// ListCategories lists categories owned by a survey or one of its sections
func (s *surveyService) ListCategories(ctx context.Context, surveyID primitive.ObjectID, sectionID string) ([]models.ResultCategory, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	owner, err := s.buildCategoryOwner(survey, sectionID)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.ListByOwner(ctx, owner)
}

// ListResponses lists responses for a survey
func (s *surveyService) ListResponses(ctx context.Context, surveyID primitive.ObjectID, status *models.ResponseStatus, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error) {
	if _, err := s.surveyRepo.GetByID(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.responseRepo.ListBySurvey(ctx, surveyID, status, opts)
}

// GetResponse returns one response with its respondent, answers, and score.
// Respondent and score are optional: a response abandoned at step one has neither.
func (s *surveyService) GetResponse(ctx context.Context, surveyID, responseID primitive.ObjectID) (*ResponseDetail, error) {
	response, err := s.getSurveyResponse(ctx, surveyID, responseID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.ListByResponse(ctx, response.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	detail := &ResponseDetail{Response: response, Answers: answers}

	if response.RespondentID != nil {
		respondent, err := s.respondentRepo.GetByID(ctx, *response.RespondentID)
		if err == nil {
			detail.Respondent = respondent
		}
	}
	if score, err := s.scoreService.GetScore(ctx, response.ID); err == nil {
		detail.Score = score
	}

	return detail, nil
}

// getSurveyResponse loads a response and verifies it belongs to the survey
func (s *surveyService) getSurveyResponse(ctx context.Context, surveyID, responseID primitive.ObjectID) (*models.Response, error) {
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response.SurveyID != surveyID {
		return nil, models.ErrResponseSurveyMismatch
	}
	return response, nil
}

// AbandonResponse marks a non-terminal response as abandoned
func (s *surveyService) AbandonResponse(ctx context.Context, surveyID, responseID primitive.ObjectID) (*models.Response, error) {
	response, err := s.getSurveyResponse(ctx, surveyID, responseID)
	if err != nil {
		return nil, err
	}
	if err := response.Abandon(); err != nil {
		return nil, err
	}
	if err := s.responseRepo.Update(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

// RescoreResponse recomputes the score of a completed response.
// Shares the submit lock key so a rescore never interleaves with a late submit.
func (s *surveyService) RescoreResponse(ctx context.Context, surveyID, responseID primitive.ObjectID) (*models.ResponseScore, error) {
	response, err := s.getSurveyResponse(ctx, surveyID, responseID)
	if err != nil {
		return nil, err
	}
	if !response.IsCompleted() {
		return nil, models.ErrResponseNotCompleted
	}

	var score *models.ResponseScore
	lockKey := models.SubmitLockKey(response.ID)
	err = s.lockService.WithLock(ctx, lockKey, response.ID, models.LockOpRescore, func(ctx context.Context) error {
		score, err = s.scoreService.CalculateAndSaveScore(ctx, response)
		return err
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

// buildChoices converts choice requests to model choices
func buildChoices(reqs []ChoiceRequest) []models.Choice {
	choices := make([]models.Choice, 0, len(reqs))
	for i, c := range reqs {
		value := c.Value
		if value == "" {
			value = c.Label
		}
		choices = append(choices, models.Choice{
			Label: c.Label,
			Value: value,
			Score: c.Score,
			Order: i + 1,
		})
	}
	return choices
}

// buildRules converts rule requests to model rules, preserving submission order
func buildRules(reqs []RuleRequest) []models.ResultCategoryRule {
	rules := make([]models.ResultCategoryRule, 0, len(reqs))
	for _, r := range reqs {
		rules = append(rules, models.ResultCategoryRule{
			ID:        uuid.New().String(),
			Operation: models.RuleOperation(normalizeEnum(r.Operation)),
			Score:     r.Score,
			Title:     r.Title,
			Color:     r.Color,
		})
	}
	return rules
}
