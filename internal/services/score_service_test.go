package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/models"
)

// scoringFixture builds a two-section survey whose maximum score is 10:
// section A holds a single-choice question worth 2, section B a single-choice
// question with weight 4 worth 8.
func scoringFixture() (*models.Survey, []models.Question) {
	survey := &models.Survey{
		ID:    primitive.NewObjectID(),
		Code:  "SURVEY001",
		Title: "Wellbeing Check",
		Sections: []models.SurveySection{
			{ID: "sec-a", Title: "Habits", Order: 1},
			{ID: "sec-b", Title: "Mood", Order: 2},
		},
	}

	q1 := models.Question{
		ID:          primitive.NewObjectID(),
		SurveyID:    survey.ID,
		SectionID:   "sec-a",
		Text:        "How often do you exercise?",
		Type:        models.QuestionTypeSingleChoice,
		Order:       1,
		ScoreWeight: 1,
		Choices: []models.Choice{
			{ID: "q1-never", Label: "Never", Score: 0},
			{ID: "q1-weekly", Label: "Weekly", Score: 1},
			{ID: "q1-daily", Label: "Daily", Score: 2},
		},
	}
	q2 := models.Question{
		ID:          primitive.NewObjectID(),
		SurveyID:    survey.ID,
		SectionID:   "sec-b",
		Text:        "How is your mood?",
		Type:        models.QuestionTypeSingleChoice,
		Order:       1,
		ScoreWeight: 4,
		Choices: []models.Choice{
			{ID: "q2-low", Label: "Low", Score: 0},
			{ID: "q2-ok", Label: "OK", Score: 1},
			{ID: "q2-great", Label: "Great", Score: 2},
		},
	}

	return survey, []models.Question{q1, q2}
}

func newScoreServiceWithFakes() (ScoreService, *fakeSurveyRepo, *fakeQuestionRepo, *fakeAnswerRepo, *fakeScoreRepo, *fakeCategoryRepo) {
	surveyRepo := newFakeSurveyRepo()
	questionRepo := newFakeQuestionRepo()
	answerRepo := newFakeAnswerRepo()
	scoreRepo := newFakeScoreRepo()
	categoryRepo := newFakeCategoryRepo()
	svc := NewScoreService(surveyRepo, questionRepo, answerRepo, scoreRepo, categoryRepo)
	return svc, surveyRepo, questionRepo, answerRepo, scoreRepo, categoryRepo
}

func TestScoreService_ComputeScore(t *testing.T) {
	svc, _, _, _, _, _ := newScoreServiceWithFakes()
	survey, questions := scoringFixture()
	responseID := primitive.NewObjectID()

	answers := []models.Answer{
		{ResponseID: responseID, QuestionID: questions[0].ID, ChoiceID: "q1-daily"}, // 2 x 1 = 2
		{ResponseID: responseID, QuestionID: questions[1].ID, ChoiceID: "q2-ok"},    // 1 x 4 = 4
	}

	score := svc.ComputeScore(survey, questions, answers)

	if score.TotalScore != 6 {
		t.Errorf("TotalScore = %v, want 6", score.TotalScore)
	}
	if score.MaxPossibleScore != 10 {
		t.Errorf("MaxPossibleScore = %v, want 10", score.MaxPossibleScore)
	}
	if score.Percentage != 60 {
		t.Errorf("Percentage = %v, want 60", score.Percentage)
	}

	if len(score.SectionScores) != 2 {
		t.Fatalf("len(SectionScores) = %d, want 2", len(score.SectionScores))
	}
	secA := score.SectionScores[0]
	if secA.SectionID != "sec-a" || secA.Score != 2 || secA.MaxScore != 2 || secA.Percentage != 100 {
		t.Errorf("section A = %+v, want score 2/2 (100%%)", secA)
	}
	secB := score.SectionScores[1]
	if secB.SectionID != "sec-b" || secB.Score != 4 || secB.MaxScore != 8 || secB.Percentage != 50 {
		t.Errorf("section B = %+v, want score 4/8 (50%%)", secB)
	}
}

func TestScoreService_ComputeScoreDeterministic(t *testing.T) {
	svc, _, _, _, _, _ := newScoreServiceWithFakes()
	survey, questions := scoringFixture()
	responseID := primitive.NewObjectID()
	answers := []models.Answer{
		{ResponseID: responseID, QuestionID: questions[0].ID, ChoiceID: "q1-weekly"},
		{ResponseID: responseID, QuestionID: questions[1].ID, ChoiceID: "q2-great"},
	}

	first := svc.ComputeScore(survey, questions, answers)
	for i := 0; i < 5; i++ {
		again := svc.ComputeScore(survey, questions, answers)
		if again.TotalScore != first.TotalScore || again.Percentage != first.Percentage {
			t.Fatalf("recomputation differs: %v%% vs %v%%", again.Percentage, first.Percentage)
		}
	}
}

func TestScoreService_ComputeScoreEdgeCases(t *testing.T) {
	svc, _, _, _, _, _ := newScoreServiceWithFakes()
	survey, questions := scoringFixture()
	responseID := primitive.NewObjectID()

	t.Run("Unanswered question still counts toward the maximum", func(t *testing.T) {
		answers := []models.Answer{
			{ResponseID: responseID, QuestionID: questions[0].ID, ChoiceID: "q1-daily"},
		}
		score := svc.ComputeScore(survey, questions, answers)
		if score.MaxPossibleScore != 10 {
			t.Errorf("MaxPossibleScore = %v, want 10", score.MaxPossibleScore)
		}
		if score.TotalScore != 2 {
			t.Errorf("TotalScore = %v, want 2", score.TotalScore)
		}
		if score.Percentage != 20 {
			t.Errorf("Percentage = %v, want 20", score.Percentage)
		}
	})

	t.Run("Text questions do not contribute", func(t *testing.T) {
		text := models.Question{
			ID:          primitive.NewObjectID(),
			SurveyID:    survey.ID,
			SectionID:   "sec-a",
			Text:        "Anything to add?",
			Type:        models.QuestionTypeLongText,
			ScoreWeight: 1,
		}
		withText := append([]models.Question{}, questions...)
		withText = append(withText, text)

		answers := []models.Answer{
			{ResponseID: responseID, QuestionID: text.ID, ValueText: "all good"},
		}
		score := svc.ComputeScore(survey, withText, answers)
		if score.MaxPossibleScore != 10 {
			t.Errorf("MaxPossibleScore = %v, want 10", score.MaxPossibleScore)
		}
		if score.TotalScore != 0 {
			t.Errorf("TotalScore = %v, want 0", score.TotalScore)
		}
	})

	t.Run("Weight zero excludes a question entirely", func(t *testing.T) {
		unweighted := append([]models.Question{}, questions...)
		unweighted[1].ScoreWeight = 0

		answers := []models.Answer{
			{ResponseID: responseID, QuestionID: unweighted[1].ID, ChoiceID: "q2-great"},
		}
		score := svc.ComputeScore(survey, unweighted, answers)
		if score.MaxPossibleScore != 2 {
			t.Errorf("MaxPossibleScore = %v, want 2", score.MaxPossibleScore)
		}
		if score.TotalScore != 0 {
			t.Errorf("TotalScore = %v, want 0", score.TotalScore)
		}
	})

	t.Run("No scoreable questions yields zero percentage", func(t *testing.T) {
		score := svc.ComputeScore(survey, nil, nil)
		if score.MaxPossibleScore != 0 || score.Percentage != 0 {
			t.Errorf("empty survey score = %v/%v, want 0/0", score.Percentage, score.MaxPossibleScore)
		}
	})

	t.Run("Percentage rounds to two decimals", func(t *testing.T) {
		third := []models.Question{{
			ID:          primitive.NewObjectID(),
			SurveyID:    survey.ID,
			SectionID:   "sec-a",
			Type:        models.QuestionTypeSingleChoice,
			ScoreWeight: 1,
			Choices: []models.Choice{
				{ID: "a", Score: 2},
				{ID: "b", Score: 3},
			},
		}}
		answers := []models.Answer{
			{ResponseID: responseID, QuestionID: third[0].ID, ChoiceID: "a"},
		}
		score := svc.ComputeScore(survey, third, answers)
		if score.Percentage != 66.67 {
			t.Errorf("Percentage = %v, want 66.67", score.Percentage)
		}
	})
}

func TestScoreService_MultipleChoiceScoring(t *testing.T) {
	svc, _, _, _, _, _ := newScoreServiceWithFakes()
	survey := &models.Survey{
		ID:       primitive.NewObjectID(),
		Sections: []models.SurveySection{{ID: "sec-1", Title: "Multi", Order: 1}},
	}
	q := models.Question{
		ID:          primitive.NewObjectID(),
		SurveyID:    survey.ID,
		SectionID:   "sec-1",
		Type:        models.QuestionTypeMultipleChoice,
		ScoreWeight: 2,
		Choices: []models.Choice{
			{ID: "m1", Score: 1},
			{ID: "m2", Score: 2},
			{ID: "m3", Score: 0},
		},
	}

	// Max is the sum of positive choice scores times the weight: (1+2) x 2 = 6
	answers := []models.Answer{
		{QuestionID: q.ID, ChoiceIDs: []string{"m1", "m3"}},
	}
	score := svc.ComputeScore(survey, []models.Question{q}, answers)

	if score.MaxPossibleScore != 6 {
		t.Errorf("MaxPossibleScore = %v, want 6", score.MaxPossibleScore)
	}
	if score.TotalScore != 2 {
		t.Errorf("TotalScore = %v, want 2", score.TotalScore)
	}
	if score.Percentage != 33.33 {
		t.Errorf("Percentage = %v, want 33.33", score.Percentage)
	}
}

func TestScoreService_CalculateAndSaveScore(t *testing.T) {
	svc, surveyRepo, questionRepo, answerRepo, scoreRepo, categoryRepo := newScoreServiceWithFakes()
	ctx := context.Background()

	survey, questions := scoringFixture()
	surveyRepo.mu.Lock()
	surveyRepo.surveys[survey.ID] = *survey
	surveyRepo.mu.Unlock()
	for i := range questions {
		questionRepo.mu.Lock()
		questionRepo.questions = append(questionRepo.questions, questions[i])
		questionRepo.mu.Unlock()
	}

	category := &models.ResultCategory{
		Owner: models.NewSurveyOwner(survey.ID),
		Name:  "Brackets",
		Rules: []models.ResultCategoryRule{
			{ID: "r1", Operation: models.RuleOpLessThan, Score: 40, Title: "Low", Color: "#ff0000"},
			{ID: "r2", Operation: models.RuleOpGreaterThan, Score: 70, Title: "High", Color: "#00ff00"},
			{ID: "r3", Operation: models.RuleOpElse, Title: "Moderate", Color: "#ffff00"},
		},
	}
	if err := categoryRepo.Create(ctx, category); err != nil {
		t.Fatalf("Create(category) error = %v", err)
	}

	response := &models.Response{SurveyID: survey.ID}
	response.BeforeCreate()

	for _, a := range []models.Answer{
		{ResponseID: response.ID, QuestionID: questions[0].ID, ChoiceID: "q1-daily"},
		{ResponseID: response.ID, QuestionID: questions[1].ID, ChoiceID: "q2-ok"},
	} {
		answer := a
		if err := answerRepo.Upsert(ctx, &answer); err != nil {
			t.Fatalf("Upsert(answer) error = %v", err)
		}
	}

	score, err := svc.CalculateAndSaveScore(ctx, response)
	if err != nil {
		t.Fatalf("CalculateAndSaveScore() error = %v", err)
	}

	if score.Percentage != 60 {
		t.Errorf("Percentage = %v, want 60", score.Percentage)
	}
	if score.ResultTitle != "Moderate" {
		t.Errorf("ResultTitle = %q, want %q", score.ResultTitle, "Moderate")
	}
	if score.ResultCategoryID == nil || *score.ResultCategoryID != category.ID {
		t.Errorf("ResultCategoryID = %v, want %v", score.ResultCategoryID, category.ID)
	}
	if score.ResultColor != "#ffff00" {
		t.Errorf("ResultColor = %q, want %q", score.ResultColor, "#ffff00")
	}

	// Persisted and retrievable
	stored, err := scoreRepo.GetByResponse(ctx, response.ID)
	if err != nil {
		t.Fatalf("GetByResponse() error = %v", err)
	}
	if stored.Percentage != 60 {
		t.Errorf("stored Percentage = %v, want 60", stored.Percentage)
	}

	// Recomputation overwrites, never duplicates
	if _, err := svc.CalculateAndSaveScore(ctx, response); err != nil {
		t.Fatalf("CalculateAndSaveScore() second run error = %v", err)
	}
	again, err := scoreRepo.GetByResponse(ctx, response.ID)
	if err != nil {
		t.Fatalf("GetByResponse() after rescore error = %v", err)
	}
	if again.ID != stored.ID {
		t.Errorf("rescore created a new score document: %v != %v", again.ID, stored.ID)
	}
}

func TestScoreService_CalculateAndSaveScoreNoCategories(t *testing.T) {
	svc, surveyRepo, questionRepo, answerRepo, _, _ := newScoreServiceWithFakes()
	ctx := context.Background()

	survey, questions := scoringFixture()
	surveyRepo.mu.Lock()
	surveyRepo.surveys[survey.ID] = *survey
	surveyRepo.mu.Unlock()
	questionRepo.mu.Lock()
	questionRepo.questions = append(questionRepo.questions, questions...)
	questionRepo.mu.Unlock()

	response := &models.Response{SurveyID: survey.ID}
	response.BeforeCreate()
	answer := models.Answer{ResponseID: response.ID, QuestionID: questions[0].ID, ChoiceID: "q1-daily"}
	if err := answerRepo.Upsert(ctx, &answer); err != nil {
		t.Fatalf("Upsert(answer) error = %v", err)
	}

	score, err := svc.CalculateAndSaveScore(ctx, response)
	if err != nil {
		t.Fatalf("CalculateAndSaveScore() error = %v", err)
	}
	if score.ResultCategoryID != nil || score.ResultTitle != "" {
		t.Errorf("result fields set without categories: %v %q", score.ResultCategoryID, score.ResultTitle)
	}
}

func TestScoreService_SingleSectionWorkedExample(t *testing.T) {
	svc, _, _, _, _, _ := newScoreServiceWithFakes()

	survey := &models.Survey{
		ID:    primitive.NewObjectID(),
		Code:  "SURVEY001",
		Title: "Single Section",
		Sections: []models.SurveySection{
			{ID: "only", Title: "Only", Order: 1},
		},
	}
	question := models.Question{
		ID:          primitive.NewObjectID(),
		SurveyID:    survey.ID,
		SectionID:   "only",
		Text:        "Pick one",
		Type:        models.QuestionTypeSingleChoice,
		Order:       1,
		ScoreWeight: 2,
		Choices: []models.Choice{
			{ID: "low", Label: "Low", Score: 1},
			{ID: "mid", Label: "Mid", Score: 3},
			{ID: "high", Label: "High", Score: 5},
		},
	}
	responseID := primitive.NewObjectID()
	answers := []models.Answer{
		{ResponseID: responseID, QuestionID: question.ID, ChoiceID: "mid"},
	}

	score := svc.ComputeScore(survey, []models.Question{question}, answers)

	if score.TotalScore != 6 {
		t.Errorf("TotalScore = %v, want 6", score.TotalScore)
	}
	if score.MaxPossibleScore != 10 {
		t.Errorf("MaxPossibleScore = %v, want 10", score.MaxPossibleScore)
	}
	if score.Percentage != 60 {
		t.Errorf("Percentage = %v, want 60", score.Percentage)
	}
	if len(score.SectionScores) != 1 {
		t.Fatalf("len(SectionScores) = %d, want 1", len(score.SectionScores))
	}
	if score.SectionScores[0].Score != 6 || score.SectionScores[0].MaxScore != 10 {
		t.Errorf("section breakdown = %v/%v, want 6/10", score.SectionScores[0].Score, score.SectionScores[0].MaxScore)
	}
}
