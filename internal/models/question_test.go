package models

import (
	"testing"
)

func choiceQuestion(qt QuestionType) *Question {
	q := &Question{
		Text: "How often?",
		Type: qt,
		Choices: []Choice{
			{ID: "c1", Label: "Never", Score: 0},
			{ID: "c2", Label: "Sometimes", Score: 1},
			{ID: "c3", Label: "Often", Score: 2},
		},
	}
	q.BeforeCreate()
	return q
}

func TestQuestion_BeforeCreateDefaults(t *testing.T) {
	q := &Question{Text: "Q", Type: QuestionTypeSingleChoice, Choices: []Choice{{Label: "A"}, {Label: "B"}}}
	q.BeforeCreate()

	if q.ScoreWeight != 1 {
		t.Errorf("ScoreWeight = %v, want 1", q.ScoreWeight)
	}
	for i, c := range q.Choices {
		if c.ID == "" {
			t.Errorf("Choices[%d].ID not assigned", i)
		}
		if c.Order != i+1 {
			t.Errorf("Choices[%d].Order = %d, want %d", i, c.Order, i+1)
		}
	}
}

func TestQuestion_BeforeUpdateBackfillsDefaults(t *testing.T) {
	q := &Question{Text: "Q", Type: QuestionTypeSingleChoice, Choices: []Choice{{Label: "A"}, {Label: "B"}}}
	q.BeforeCreate()

	// An edit replaces the choice list with fresh, ID-less entries
	q.Choices = []Choice{{Label: "A'"}, {Label: "B'"}}
	q.ScoreWeight = 0
	q.BeforeUpdate()

	if q.ScoreWeight != 1 {
		t.Errorf("ScoreWeight = %v, want 1", q.ScoreWeight)
	}
	for i, c := range q.Choices {
		if c.ID == "" {
			t.Errorf("Choices[%d].ID not assigned", i)
		}
		if c.Order != i+1 {
			t.Errorf("Choices[%d].Order = %d, want %d", i, c.Order, i+1)
		}
	}
}

func TestQuestion_Validate(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		wantErr  error
	}{
		{"Valid text question", Question{Text: "Q", Type: QuestionTypeShortText}, nil},
		{"Invalid type", Question{Text: "Q", Type: "RATING"}, ErrInvalidQuestionType},
		{"Choice question without choices", Question{Text: "Q", Type: QuestionTypeSingleChoice}, ErrMissingQuestionChoices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.question.Validate(); got != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestQuestion_MaxWeightedScore(t *testing.T) {
	q := choiceQuestion(QuestionTypeSingleChoice)
	if got := q.MaxChoiceScore(); got != 2 {
		t.Errorf("MaxChoiceScore() = %v, want 2", got)
	}
	if got := q.MaxWeightedScore(); got != 2 {
		t.Errorf("MaxWeightedScore() = %v, want 2", got)
	}

	q.ScoreWeight = 2.5
	if got := q.MaxWeightedScore(); got != 5 {
		t.Errorf("MaxWeightedScore() with weight = %v, want 5", got)
	}

	text := &Question{Text: "Q", Type: QuestionTypeShortText}
	text.BeforeCreate()
	if got := text.MaxWeightedScore(); got != 0 {
		t.Errorf("MaxWeightedScore() without choices = %v, want 0", got)
	}
}

func TestQuestion_ValidateAnswer(t *testing.T) {
	num := 42.0

	tests := []struct {
		name        string
		qt          QuestionType
		choiceID    string
		choiceIDs   []string
		valueText   string
		valueNumber *float64
		wantErr     error
	}{
		{"Single choice valid", QuestionTypeSingleChoice, "c2", nil, "", nil, nil},
		{"Single choice missing", QuestionTypeSingleChoice, "", nil, "", nil, ErrInvalidAnswerFormat},
		{"Single choice unknown", QuestionTypeSingleChoice, "nope", nil, "", nil, ErrInvalidChoiceID},

		{"Multiple choice valid", QuestionTypeMultipleChoice, "", []string{"c1", "c3"}, "", nil, nil},
		{"Multiple choice empty", QuestionTypeMultipleChoice, "", nil, "", nil, ErrInvalidAnswerFormat},
		{"Multiple choice unknown", QuestionTypeMultipleChoice, "", []string{"c1", "nope"}, "", nil, ErrInvalidChoiceID},

		{"Number valid", QuestionTypeNumber, "", nil, "", &num, nil},
		{"Number missing", QuestionTypeNumber, "", nil, "", nil, ErrInvalidAnswerFormat},

		{"Short text valid", QuestionTypeShortText, "", nil, "hello", nil, nil},
		{"Short text empty", QuestionTypeShortText, "", nil, "", nil, ErrInvalidAnswerFormat},
		{"Date valid", QuestionTypeDate, "", nil, "2024-05-01", nil, nil},
		{"Date empty", QuestionTypeDate, "", nil, "", nil, ErrInvalidAnswerFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q *Question
			if tt.qt.HasChoices() {
				q = choiceQuestion(tt.qt)
			} else {
				q = &Question{Text: "Q", Type: tt.qt}
				q.BeforeCreate()
			}
			got := q.ValidateAnswer(tt.choiceID, tt.choiceIDs, tt.valueText, tt.valueNumber)
			if got != tt.wantErr {
				t.Errorf("ValidateAnswer() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}
