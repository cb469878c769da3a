// Package services provides business logic implementations.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
)

// FlowService drives the respondent's guided journey through a survey:
// enter by code, submit the respondent profile, answer questions, submit, see the result.
// #INTEGRATION_POINT: Used by the public flow handler; step gating happens in the session guard
type FlowService interface {
	// GetSurveyByCode returns an active survey for the entry page preview
	GetSurveyByCode(ctx context.Context, code string) (*models.Survey, error)

	// EnterSurvey starts a new response for the survey with the given code
	EnterSurvey(ctx context.Context, code string, meta models.ResponseMeta) (*EnterResult, error)

	// SubmitRespondentData records the respondent profile and advances to the questions step
	SubmitRespondentData(ctx context.Context, response *models.Response, req RespondentDataRequest) error

	// GetQuestionnaire assembles the survey structure with any answers saved so far
	GetQuestionnaire(ctx context.Context, response *models.Response) (*QuestionnaireView, error)

	// SaveAnswers persists a partial batch of answers without completing the response
	SaveAnswers(ctx context.Context, response *models.Response, answers []AnswerInput) error

	// SubmitFinal saves the final batch, validates completeness, completes the
	// response, and computes the score. Serialized per response by the submit lock.
	SubmitFinal(ctx context.Context, response *models.Response, answers []AnswerInput) error

	// GetResult returns the stored score of a completed response
	GetResult(ctx context.Context, response *models.Response) (*ResultView, error)
}

// EnterResult bundles the created response with its survey
type EnterResult struct {
	Survey   *models.Survey
	Response *models.Response
}

// RespondentDataRequest carries the respondent profile form
type RespondentDataRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Gender       string `json:"gender" binding:"required"`
	BirthYear    int    `json:"birth_year" binding:"required"`
	Organization string `json:"organization,omitempty"`
	Department   string `json:"department,omitempty"`
	RoleTitle    string `json:"role_title,omitempty"`
	Location     string `json:"location,omitempty"`
	Consent      bool   `json:"consent"`
}

// AnswerInput carries one submitted answer value
type AnswerInput struct {
	QuestionID  string   `json:"question_id" binding:"required"`
	ChoiceID    string   `json:"choice_id,omitempty"`
	ChoiceIDs   []string `json:"choice_ids,omitempty"`
	ValueText   string   `json:"value_text,omitempty"`
	ValueNumber *float64 `json:"value_number,omitempty"`
}

// SectionView is one section with its questions
type SectionView struct {
	Section   models.SurveySection `json:"section"`
	Questions []models.Question    `json:"questions"`
}

// QuestionnaireView is the full questions-step payload
type QuestionnaireView struct {
	Survey   *models.Survey  `json:"survey"`
	Sections []SectionView   `json:"sections"`
	Answers  []models.Answer `json:"answers"`
}

// ResultView is the result-step payload
type ResultView struct {
	Survey *models.Survey        `json:"survey"`
	Score  *models.ResponseScore `json:"score"`
}

// normalizeEnum uppercases a client-supplied enum value for storage
func normalizeEnum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// flowService implements FlowService
type flowService struct {
	surveyRepo     repository.SurveyRepository
	questionRepo   repository.QuestionRepository
	respondentRepo repository.RespondentRepository
	responseRepo   repository.ResponseRepository
	answerRepo     repository.AnswerRepository
	scoreService   ScoreService
	lockService    LockService
}

// NewFlowService creates a new flow service
func NewFlowService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	respondentRepo repository.RespondentRepository,
	responseRepo repository.ResponseRepository,
	answerRepo repository.AnswerRepository,
	scoreService ScoreService,
	lockService LockService,
) FlowService {
	return &flowService{
		surveyRepo:     surveyRepo,
		questionRepo:   questionRepo,
		respondentRepo: respondentRepo,
		responseRepo:   responseRepo,
		answerRepo:     answerRepo,
		scoreService:   scoreService,
		lockService:    lockService,
	}
}

// GetSurveyByCode returns an active survey for the entry page preview
func (s *flowService) GetSurveyByCode(ctx context.Context, code string) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := survey.CanAcceptResponses(time.Now().UTC()); err != nil {
		return nil, err
	}
	return survey, nil
}

// EnterSurvey starts a new response for the survey with the given code
// #BUSINESS_RULE: Every entry creates a fresh response with its own opaque token;
// abandoned attempts are cleaned up by the admin abandon operation, never reused
func (s *flowService) EnterSurvey(ctx context.Context, code string, meta models.ResponseMeta) (*EnterResult, error) {
	survey, err := s.GetSurveyByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := &models.Response{
		SurveyID:        survey.ID,
		RespondentToken: uuid.New().String(),
		Meta:            meta,
	}
	if err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to create response: %w", err)
	}

	return &EnterResult{Survey: survey, Response: response}, nil
}

// SubmitRespondentData records the respondent profile and advances to the questions step
// #BUSINESS_RULE: Resubmitting the form before advancing updates the existing profile
func (s *flowService) SubmitRespondentData(ctx context.Context, response *models.Response, req RespondentDataRequest) error {
	if response.Status.IsTerminal() {
		return models.ErrResponseCompleted
	}

	now := time.Now().UTC()
	profile := models.Respondent{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Gender:       models.Gender(normalizeEnum(req.Gender)),
		BirthYear:    req.BirthYear,
		Organization: req.Organization,
		Department:   req.Department,
		RoleTitle:    req.RoleTitle,
		Location:     req.Location,
		Consent:      req.Consent,
	}
	if err := profile.Validate(now); err != nil {
		return err
	}

	if response.RespondentID != nil {
		existing, err := s.respondentRepo.GetByID(ctx, *response.RespondentID)
		if err != nil {
			return fmt.Errorf("failed to get respondent: %w", err)
		}
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		profile.ConsentAt = existing.ConsentAt
		if err := s.respondentRepo.Update(ctx, &profile); err != nil {
			return fmt.Errorf("failed to update respondent: %w", err)
		}
	} else {
		if err := s.respondentRepo.Create(ctx, &profile); err != nil {
			return fmt.Errorf("failed to create respondent: %w", err)
		}
		response.LinkRespondent(profile.ID)
	}

	if response.CurrentStep == models.StepRespondentData {
		if err := response.AdvanceStep(models.StepQuestions); err != nil {
			return err
		}
	}
	if err := response.MarkInProgress(); err != nil {
		return err
	}

	if err := s.responseRepo.Update(ctx, response); err != nil {
		return fmt.Errorf("failed to update response: %w", err)
	}
	return nil
}

// GetQuestionnaire assembles the survey structure with any answers saved so far
func (s *flowService) GetQuestionnaire(ctx context.Context, response *models.Response) (*QuestionnaireView, error) {
	survey, err := s.surveyRepo.GetByID(ctx, response.SurveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	questions, err := s.questionRepo.ListBySurvey(ctx, survey.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	answers, err := s.answerRepo.ListByResponse(ctx, response.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	bySection := make(map[string][]models.Question, len(survey.Sections))
	for _, q := range questions {
		bySection[q.SectionID] = append(bySection[q.SectionID], q)
	}

	sections := make([]SectionView, 0, len(survey.Sections))
	for _, section := range survey.Sections {
		qs := bySection[section.ID]
		if qs == nil {
			qs = []models.Question{}
		}
		sections = append(sections, SectionView{Section: section, Questions: qs})
	}

	return &QuestionnaireView{Survey: survey, Sections: sections, Answers: answers}, nil
}

// saveAnswerBatch validates and upserts a batch of answers against the survey's questions
func (s *flowService) saveAnswerBatch(ctx context.Context, response *models.Response, answers []AnswerInput) (map[primitive.ObjectID]bool, []models.Question, error) {
	questions, err := s.questionRepo.ListBySurvey(ctx, response.SurveyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get questions: %w", err)
	}
	questionsByID := make(map[primitive.ObjectID]*models.Question, len(questions))
	for i := range questions {
		questionsByID[questions[i].ID] = &questions[i]
	}

	answered := make(map[primitive.ObjectID]bool, len(answers))
	for _, input := range answers {
		questionID, err := primitive.ObjectIDFromHex(input.QuestionID)
		if err != nil {
			return nil, nil, models.ErrInvalidAnswerFormat
		}
		question, ok := questionsByID[questionID]
		if !ok {
			return nil, nil, models.ErrQuestionNotFound
		}
		if err := question.ValidateAnswer(input.ChoiceID, input.ChoiceIDs, input.ValueText, input.ValueNumber); err != nil {
			return nil, nil, err
		}

		answer := &models.Answer{
			ResponseID:  response.ID,
			QuestionID:  questionID,
			ChoiceID:    input.ChoiceID,
			ChoiceIDs:   input.ChoiceIDs,
			ValueText:   input.ValueText,
			ValueNumber: input.ValueNumber,
		}
		if err := answer.Validate(); err != nil {
			return nil, nil, err
		}
		if err := s.answerRepo.Upsert(ctx, answer); err != nil {
			return nil, nil, fmt.Errorf("failed to save answer: %w", err)
		}
		answered[questionID] = true
	}

	return answered, questions, nil
}

// SaveAnswers persists a partial batch of answers without completing the response
func (s *flowService) SaveAnswers(ctx context.Context, response *models.Response, answers []AnswerInput) error {
	if response.Status.IsTerminal() {
		return models.ErrResponseCompleted
	}
	if _, _, err := s.saveAnswerBatch(ctx, response, answers); err != nil {
		return err
	}
	// A first partial save moves the response out of STARTED
	if response.Status != models.ResponseStatusInProgress {
		if err := response.MarkInProgress(); err != nil {
			return err
		}
		if err := s.responseRepo.Update(ctx, response); err != nil {
			return fmt.Errorf("failed to update response: %w", err)
		}
	}
	return nil
}

// SubmitFinal saves the final batch, validates completeness, completes the
// response, and computes the score.
// #BUSINESS_RULE: A double submit loses the lock race and gets a conflict;
// required questions must all carry answers before completion
func (s *flowService) SubmitFinal(ctx context.Context, response *models.Response, answers []AnswerInput) error {
	lockKey := models.SubmitLockKey(response.ID)
	return s.lockService.WithLock(ctx, lockKey, response.ID, models.LockOpSubmitFinal, func(ctx context.Context) error {
		// Re-read under the lock so the loser of a race sees the winner's completion
		current, err := s.responseRepo.GetByID(ctx, response.ID)
		if err != nil {
			return fmt.Errorf("failed to get response: %w", err)
		}
		if current.Status.IsTerminal() {
			return models.ErrResponseCompleted
		}

		answered, questions, err := s.saveAnswerBatch(ctx, current, answers)
		if err != nil {
			return err
		}

		stored, err := s.answerRepo.ListByResponse(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("failed to get answers: %w", err)
		}
		for _, a := range stored {
			answered[a.QuestionID] = true
		}
		for i := range questions {
			if questions[i].Required && !answered[questions[i].ID] {
				return models.ErrRequiredUnanswered
			}
		}

		if err := current.Complete(); err != nil {
			return err
		}
		if err := current.AdvanceStep(models.StepResult); err != nil {
			return err
		}
		if err := s.responseRepo.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to update response: %w", err)
		}

		// Scoring failure does not undo completion; the result view retries on demand
		if _, err := s.scoreService.CalculateAndSaveScore(ctx, current); err != nil {
			log.Printf("failed to score response %s: %v", current.ID.Hex(), err)
		}

		*response = *current
		return nil
	})
}

// GetResult returns the stored score of a completed response
func (s *flowService) GetResult(ctx context.Context, response *models.Response) (*ResultView, error) {
	if !response.IsCompleted() {
		return nil, models.ErrResponseNotCompleted
	}

	survey, err := s.surveyRepo.GetByID(ctx, response.SurveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	score, err := s.scoreService.GetScore(ctx, response.ID)
	if err != nil {
		if errors.Is(err, models.ErrScoreNotFound) {
			// Backfill for responses completed before a score landed
			score, err = s.scoreService.CalculateAndSaveScore(ctx, response)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	return &ResultView{Survey: survey, Score: score}, nil
}
