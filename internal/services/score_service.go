package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
)

// ScoreService computes and persists response scores
// #INTEGRATION_POINT: Invoked synchronously by the flow service on final submission
type ScoreService interface {
	// ComputeScore derives the score breakdown from a survey's structure and a
	// response's answers. Pure computation, no persistence.
	ComputeScore(survey *models.Survey, questions []models.Question, answers []models.Answer) *models.ResponseScore

	// CalculateAndSaveScore loads everything a response needs, computes the score,
	// resolves the result category, and upserts the score document.
	CalculateAndSaveScore(ctx context.Context, response *models.Response) (*models.ResponseScore, error)

	// GetScore retrieves the stored score of a response
	GetScore(ctx context.Context, responseID primitive.ObjectID) (*models.ResponseScore, error)
}

// scoreService implements ScoreService
type scoreService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	scoreRepo    repository.ScoreRepository
	categoryRepo repository.CategoryRepository
}

// NewScoreService creates a new score service
func NewScoreService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	scoreRepo repository.ScoreRepository,
	categoryRepo repository.CategoryRepository,
) ScoreService {
	return &scoreService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		scoreRepo:    scoreRepo,
		categoryRepo: categoryRepo,
	}
}

// questionMaxScore returns the highest attainable weighted score for a question.
// Only choice questions are scoreable; everything else contributes zero.
// #BUSINESS_RULE: Multiple choice maxes at the sum of all positive choice scores
func questionMaxScore(q *models.Question) float64 {
	if !q.Type.HasChoices() || q.ScoreWeight == 0 {
		return 0
	}
	if q.Type == models.QuestionTypeMultipleChoice {
		sum := 0.0
		for _, c := range q.Choices {
			if c.Score > 0 {
				sum += c.Score
			}
		}
		return sum * q.ScoreWeight
	}
	return q.MaxWeightedScore()
}

// answerScore returns the weighted score earned by an answer
func answerScore(q *models.Question, a *models.Answer) float64 {
	if !q.Type.HasChoices() || q.ScoreWeight == 0 {
		return 0
	}
	earned := 0.0
	if a.ChoiceID != "" {
		if choice := q.GetChoiceByID(a.ChoiceID); choice != nil {
			earned = choice.Score
		}
	}
	for _, id := range a.ChoiceIDs {
		if choice := q.GetChoiceByID(id); choice != nil {
			earned += choice.Score
		}
	}
	return earned * q.ScoreWeight
}

// ComputeScore derives the score breakdown from a survey's structure and answers.
// #BUSINESS_RULE: percentage = total / max_possible * 100, rounded to two decimals;
// an empty maximum yields zero, never a division by zero
func (s *scoreService) ComputeScore(survey *models.Survey, questions []models.Question, answers []models.Answer) *models.ResponseScore {
	answersByQuestion := make(map[primitive.ObjectID]*models.Answer, len(answers))
	for i := range answers {
		answersByQuestion[answers[i].QuestionID] = &answers[i]
	}

	type sectionTotals struct {
		score float64
		max   float64
	}
	totalsBySection := make(map[string]*sectionTotals, len(survey.Sections))
	for _, section := range survey.Sections {
		totalsBySection[section.ID] = &sectionTotals{}
	}

	total := 0.0
	maxPossible := 0.0
	for i := range questions {
		q := &questions[i]
		max := questionMaxScore(q)
		if max == 0 {
			continue
		}

		earned := 0.0
		if answer, ok := answersByQuestion[q.ID]; ok {
			earned = answerScore(q, answer)
		}

		total += earned
		maxPossible += max
		if st, ok := totalsBySection[q.SectionID]; ok {
			st.score += earned
			st.max += max
		}
	}

	sectionScores := make([]models.SectionScore, 0, len(survey.Sections))
	for _, section := range survey.Sections {
		st := totalsBySection[section.ID]
		pct := 0.0
		if st.max > 0 {
			pct = models.RoundPercentage(st.score / st.max * 100)
		}
		sectionScores = append(sectionScores, models.SectionScore{
			SectionID:    section.ID,
			SectionTitle: section.Title,
			Order:        section.Order,
			Score:        st.score,
			MaxScore:     st.max,
			Percentage:   pct,
		})
	}

	percentage := 0.0
	if maxPossible > 0 {
		percentage = models.RoundPercentage(total / maxPossible * 100)
	}

	return &models.ResponseScore{
		SurveyID:         survey.ID,
		TotalScore:       total,
		MaxPossibleScore: maxPossible,
		Percentage:       percentage,
		SectionScores:    sectionScores,
	}
}

// CalculateAndSaveScore computes, categorizes, and persists the score for a response
func (s *scoreService) CalculateAndSaveScore(ctx context.Context, response *models.Response) (*models.ResponseScore, error) {
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

	score := s.ComputeScore(survey, questions, answers)
	score.ResponseID = response.ID

	// Resolve the survey-level result category. No categories or no match
	// leaves the result fields empty; the score itself still persists.
	categories, err := s.categoryRepo.ListByOwner(ctx, models.NewSurveyOwner(survey.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to get result categories: %w", err)
	}
	if match := models.EvaluateRules(categories, score.Percentage); match != nil {
		score.ResultCategoryID = &match.CategoryID
		score.ResultTitle = match.Rule.Title
		score.ResultColor = match.Rule.Color
	}

	if err := s.scoreRepo.Upsert(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	return score, nil
}

// GetScore retrieves the stored score of a response
func (s *scoreService) GetScore(ctx context.Context, responseID primitive.ObjectID) (*models.ResponseScore, error) {
	score, err := s.scoreRepo.GetByResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}
	return score, nil
}
