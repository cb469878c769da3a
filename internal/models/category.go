package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryOwnerType discriminates who owns a result category
type CategoryOwnerType string

const (
	CategoryOwnerSurvey  CategoryOwnerType = "SURVEY"
	CategoryOwnerSection CategoryOwnerType = "SURVEY_SECTION"
)

// MarshalJSON converts CategoryOwnerType to lowercase for JSON serialization
func (ot CategoryOwnerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(ot)))
}

// UnmarshalJSON converts lowercase JSON to CategoryOwnerType
func (ot *CategoryOwnerType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ot = CategoryOwnerType(strings.ToUpper(s))
	return nil
}

// IsValid checks if the CategoryOwnerType is a valid value
func (ot CategoryOwnerType) IsValid() bool {
	return ot == CategoryOwnerSurvey || ot == CategoryOwnerSection
}

// CategoryOwner is a tagged reference to either a survey or one of its sections.
// Surveys are addressed by ObjectID, embedded sections by their string ID.
type CategoryOwner struct {
	Type      CategoryOwnerType  `bson:"type" json:"type"`
	SurveyID  primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	SectionID string             `bson:"section_id,omitempty" json:"section_id,omitempty"`
}

// NewSurveyOwner builds a survey-level category owner
func NewSurveyOwner(surveyID primitive.ObjectID) CategoryOwner {
	return CategoryOwner{Type: CategoryOwnerSurvey, SurveyID: surveyID}
}

// NewSectionOwner builds a section-level category owner
func NewSectionOwner(surveyID primitive.ObjectID, sectionID string) CategoryOwner {
	return CategoryOwner{Type: CategoryOwnerSection, SurveyID: surveyID, SectionID: sectionID}
}

// Validate checks the owner is internally consistent
func (o CategoryOwner) Validate() error {
	if !o.Type.IsValid() || o.SurveyID.IsZero() {
		return ErrInvalidCategoryOwner
	}
	if o.Type == CategoryOwnerSection && o.SectionID == "" {
		return ErrInvalidCategoryOwner
	}
	if o.Type == CategoryOwnerSurvey && o.SectionID != "" {
		return ErrInvalidCategoryOwner
	}
	return nil
}

// RuleOperation represents the comparison a category rule performs
type RuleOperation string

const (
	RuleOpLessThan    RuleOperation = "LESS_THAN"
	RuleOpGreaterThan RuleOperation = "GREATER_THAN"
	RuleOpElse        RuleOperation = "ELSE"
)

// MarshalJSON converts RuleOperation to lowercase for JSON serialization
func (op RuleOperation) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(op)))
}

// UnmarshalJSON converts lowercase JSON to RuleOperation
func (op *RuleOperation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*op = RuleOperation(strings.ToUpper(s))
	return nil
}

// IsValid checks if the RuleOperation is a valid value
func (op RuleOperation) IsValid() bool {
	switch op {
	case RuleOpLessThan, RuleOpGreaterThan, RuleOpElse:
		return true
	}
	return false
}

// ResultCategoryRule maps a percentage bound to a labeled bracket
// #NORMALIZATION_DECISION: Rules embedded in the category; array position is the definition order
type ResultCategoryRule struct {
	ID        string        `bson:"id" json:"id"`
	Operation RuleOperation `bson:"operation" json:"operation"`
	// Score is the percentage threshold; unused for ELSE rules
	Score float64 `bson:"score" json:"score"`
	Title string  `bson:"title" json:"title"`
	Color string  `bson:"color,omitempty" json:"color,omitempty"`
}

// ResultCategory groups threshold rules for a survey or section
// #DATA_ASSUMPTION: At most one ELSE rule is meaningful per category
type ResultCategory struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner CategoryOwner      `bson:"owner" json:"owner"`

	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	Rules []ResultCategoryRule `bson:"rules" json:"rules"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for result categories
func (ResultCategory) CollectionName() string {
	return "result_categories"
}

// BeforeCreate sets default values before inserting a new category
func (c *ResultCategory) BeforeCreate() {
	now := time.Now().UTC()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Rules == nil {
		c.Rules = []ResultCategoryRule{}
	}
}

// BeforeUpdate sets the UpdatedAt timestamp
func (c *ResultCategory) BeforeUpdate() {
	c.UpdatedAt = time.Now().UTC()
}

// Validate checks the category and its rules
func (c *ResultCategory) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return err
	}
	for _, rule := range c.Rules {
		if !rule.Operation.IsValid() {
			return ErrInvalidRuleOperation
		}
	}
	return nil
}

// RuleMatch identifies the winning rule and its owning category
type RuleMatch struct {
	CategoryID primitive.ObjectID
	Rule       ResultCategoryRule
}

// EvaluateRules resolves a percentage against categories in their stored order.
// Priority: the first LESS_THAN rule whose threshold exceeds the percentage wins;
// otherwise the first GREATER_THAN rule whose threshold is below the percentage;
// otherwise the first ELSE rule. A value sitting exactly on both strict bounds
// falls through to ELSE. Returns nil when nothing matches.
func EvaluateRules(categories []ResultCategory, percentage float64) *RuleMatch {
	for _, cat := range categories {
		for _, rule := range cat.Rules {
			if rule.Operation == RuleOpLessThan && rule.Score > percentage {
				return &RuleMatch{CategoryID: cat.ID, Rule: rule}
			}
		}
	}
	for _, cat := range categories {
		for _, rule := range cat.Rules {
			if rule.Operation == RuleOpGreaterThan && rule.Score < percentage {
				return &RuleMatch{CategoryID: cat.ID, Rule: rule}
			}
		}
	}
	for _, cat := range categories {
		for _, rule := range cat.Rules {
			if rule.Operation == RuleOpElse {
				return &RuleMatch{CategoryID: cat.ID, Rule: rule}
			}
		}
	}
	return nil
}
