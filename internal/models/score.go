package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionScore represents the score breakdown for a single section
// #NORMALIZATION_DECISION: Section scores calculated and stored at scoring time for reporting
type SectionScore struct {
	SectionID    string  `bson:"section_id" json:"section_id"`
	SectionTitle string  `bson:"section_title" json:"section_title"`
	Order        int     `bson:"order" json:"order"`
	Score        float64 `bson:"score" json:"score"`
	MaxScore     float64 `bson:"max_score" json:"max_score"`
	Percentage   float64 `bson:"percentage" json:"percentage"`
}

// ResponseScore holds the computed score for a completed response
// #CARDINALITY_ASSUMPTION: Response 1:1 ResponseScore - recomputation overwrites, never appends
type ResponseScore struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ResponseID primitive.ObjectID `bson:"response_id" json:"response_id"`
	SurveyID   primitive.ObjectID `bson:"survey_id" json:"survey_id"`

	TotalScore       float64 `bson:"total_score" json:"total_score"`
	MaxPossibleScore float64 `bson:"max_possible_score" json:"max_possible_score"`
	Percentage       float64 `bson:"percentage" json:"percentage"`

	SectionScores []SectionScore `bson:"section_scores" json:"section_scores"`

	// Matched survey-level category, nil when no rule matched
	ResultCategoryID *primitive.ObjectID `bson:"result_category_id,omitempty" json:"result_category_id,omitempty"`
	ResultTitle      string              `bson:"result_title,omitempty" json:"result_title,omitempty"`
	ResultColor      string              `bson:"result_color,omitempty" json:"result_color,omitempty"`

	CalculatedAt time.Time `bson:"calculated_at" json:"calculated_at"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for response scores
func (ResponseScore) CollectionName() string {
	return "response_scores"
}

// BeforeCreate sets default values before inserting a new score
func (s *ResponseScore) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	s.CalculatedAt = now
	if s.SectionScores == nil {
		s.SectionScores = []SectionScore{}
	}
}

// BeforeUpdate sets the UpdatedAt and CalculatedAt timestamps
func (s *ResponseScore) BeforeUpdate() {
	now := time.Now().UTC()
	s.UpdatedAt = now
	s.CalculatedAt = now
}

// RoundPercentage rounds a percentage to two decimals for storage
func RoundPercentage(pct float64) float64 {
	return math.Round(pct*100) / 100
}
