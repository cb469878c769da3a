package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionType represents the type of question
// #IMPLEMENTATION_DECISION: Choice, free-text, numeric, and date question kinds
type QuestionType string

const (
	QuestionTypeShortText      QuestionType = "SHORT_TEXT"
	QuestionTypeLongText       QuestionType = "LONG_TEXT"
	QuestionTypeSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeNumber         QuestionType = "NUMBER"
	QuestionTypeDate           QuestionType = "DATE"
)

// MarshalJSON converts QuestionType to lowercase for JSON serialization
func (qt QuestionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(qt)))
}

// UnmarshalJSON converts lowercase JSON to QuestionType
func (qt *QuestionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*qt = QuestionType(strings.ToUpper(s))
	return nil
}

// IsValid checks if the QuestionType is a valid value
func (qt QuestionType) IsValid() bool {
	switch qt {
	case QuestionTypeShortText, QuestionTypeLongText, QuestionTypeSingleChoice,
		QuestionTypeMultipleChoice, QuestionTypeNumber, QuestionTypeDate:
		return true
	}
	return false
}

// HasChoices returns true if this question type carries a choice list
func (qt QuestionType) HasChoices() bool {
	return qt == QuestionTypeSingleChoice || qt == QuestionTypeMultipleChoice
}

// IsText returns true for free-text question types
func (qt QuestionType) IsText() bool {
	return qt == QuestionTypeShortText || qt == QuestionTypeLongText
}

// Choice represents an answer choice for choice-based questions
// #NORMALIZATION_DECISION: Choices embedded as they are never queried independently
type Choice struct {
	ID    string  `bson:"id" json:"id"`
	Label string  `bson:"label" json:"label"`
	Value string  `bson:"value" json:"value"`
	Score float64 `bson:"score" json:"score"`
	Order int     `bson:"order" json:"order"`
}

// Question represents a single question inside a survey section
// #DATA_ASSUMPTION: ScoreWeight defaults to 1; a weight of 0 means the question does not count
// #DATA_ASSUMPTION: Question order is densely renumbered 1..N within its section
type Question struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID  primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	SectionID string             `bson:"section_id" json:"section_id"`

	// Content
	Text     string `bson:"text" json:"text"`
	HelpText string `bson:"help_text,omitempty" json:"help_text,omitempty"`

	// Type and ordering
	Type     QuestionType `bson:"type" json:"type"`
	Required bool         `bson:"required" json:"required"`
	Order    int          `bson:"order" json:"order"`

	// Scoring
	ScoreWeight float64 `bson:"score_weight" json:"score_weight"`

	// Choices (embedded for choice questions)
	Choices []Choice `bson:"choices,omitempty" json:"choices,omitempty"`

	// Audit fields
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for questions
func (Question) CollectionName() string {
	return "questions"
}

// BeforeCreate sets default values before inserting a new question
func (q *Question) BeforeCreate() {
	now := time.Now().UTC()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	q.CreatedAt = now
	q.UpdatedAt = now
	q.applyDefaults()
}

// BeforeUpdate sets the UpdatedAt timestamp and backfills defaults.
// #BUSINESS_RULE: Edits rebuild the choice list from the request, so the
// update path must assign the same defaults as create: a choice without an
// ID can never be referenced by an answer, and a zero weight drops the
// question from scoring
func (q *Question) BeforeUpdate() {
	q.UpdatedAt = time.Now().UTC()
	q.applyDefaults()
}

func (q *Question) applyDefaults() {
	if q.ScoreWeight == 0 {
		q.ScoreWeight = 1
	}
	if q.Choices == nil {
		q.Choices = []Choice{}
	}
	for i := range q.Choices {
		if q.Choices[i].ID == "" {
			q.Choices[i].ID = uuid.New().String()
		}
		if q.Choices[i].Order == 0 {
			q.Choices[i].Order = i + 1
		}
	}
}

// Validate checks structural consistency of the question
func (q *Question) Validate() error {
	if !q.Type.IsValid() {
		return ErrInvalidQuestionType
	}
	if q.Type.HasChoices() && len(q.Choices) == 0 {
		return ErrMissingQuestionChoices
	}
	return nil
}

// GetChoiceByID returns a choice by its ID
func (q *Question) GetChoiceByID(choiceID string) *Choice {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return &q.Choices[i]
		}
	}
	return nil
}

// HasChoices returns true if the question carries choices
func (q *Question) HasChoices() bool {
	return len(q.Choices) > 0
}

// MaxChoiceScore returns the highest score among the question's choices, or 0 without choices
func (q *Question) MaxChoiceScore() float64 {
	max := 0.0
	for _, c := range q.Choices {
		if c.Score > max {
			max = c.Score
		}
	}
	return max
}

// MaxWeightedScore returns the highest attainable score for this question
func (q *Question) MaxWeightedScore() float64 {
	return q.MaxChoiceScore() * q.ScoreWeight
}

// ValidateAnswer checks that the submitted value shape fits this question type.
// choiceID is set for single choice, choiceIDs for multiple choice,
// valueText for text/date, valueNumber for numeric questions.
func (q *Question) ValidateAnswer(choiceID string, choiceIDs []string, valueText string, valueNumber *float64) error {
	switch q.Type {
	case QuestionTypeSingleChoice:
		if choiceID == "" {
			return ErrInvalidAnswerFormat
		}
		if q.GetChoiceByID(choiceID) == nil {
			return ErrInvalidChoiceID
		}
	case QuestionTypeMultipleChoice:
		if len(choiceIDs) == 0 {
			return ErrInvalidAnswerFormat
		}
		for _, id := range choiceIDs {
			if q.GetChoiceByID(id) == nil {
				return ErrInvalidChoiceID
			}
		}
	case QuestionTypeNumber:
		if valueNumber == nil {
			return ErrInvalidAnswerFormat
		}
	case QuestionTypeShortText, QuestionTypeLongText, QuestionTypeDate:
		if valueText == "" {
			return ErrInvalidAnswerFormat
		}
	}
	return nil
}
