package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer records one question's value within a response
// #DATA_ASSUMPTION: Unique per (response_id, question_id); resubmission overwrites (last writer wins)
// #NORMALIZATION_DECISION: Exactly one value kind is set: choice_id, choice_ids, value_text, or value_number
type Answer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ResponseID primitive.ObjectID `bson:"response_id" json:"response_id"`
	QuestionID primitive.ObjectID `bson:"question_id" json:"question_id"`

	ChoiceID    string   `bson:"choice_id,omitempty" json:"choice_id,omitempty"`
	ChoiceIDs   []string `bson:"choice_ids,omitempty" json:"choice_ids,omitempty"`
	ValueText   string   `bson:"value_text,omitempty" json:"value_text,omitempty"`
	ValueNumber *float64 `bson:"value_number,omitempty" json:"value_number,omitempty"`

	AnsweredAt time.Time `bson:"answered_at" json:"answered_at"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for answers
func (Answer) CollectionName() string {
	return "answers"
}

// BeforeCreate sets default values before inserting a new answer
func (a *Answer) BeforeCreate() {
	now := time.Now().UTC()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	a.AnsweredAt = now
}

// BeforeUpdate sets the UpdatedAt and AnsweredAt timestamps
func (a *Answer) BeforeUpdate() {
	now := time.Now().UTC()
	a.UpdatedAt = now
	a.AnsweredAt = now
}

// ValueKindCount returns how many value kinds the answer carries
func (a *Answer) ValueKindCount() int {
	count := 0
	if a.ChoiceID != "" {
		count++
	}
	if len(a.ChoiceIDs) > 0 {
		count++
	}
	if a.ValueText != "" {
		count++
	}
	if a.ValueNumber != nil {
		count++
	}
	return count
}

// Validate checks that the answer carries exactly one value kind
func (a *Answer) Validate() error {
	if a.ValueKindCount() != 1 {
		return ErrAnswerValueConflict
	}
	return nil
}

// IsEmpty returns true if no value kind is set
func (a *Answer) IsEmpty() bool {
	return a.ValueKindCount() == 0
}
