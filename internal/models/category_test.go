package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryOwner_Validate(t *testing.T) {
	surveyID := primitive.NewObjectID()

	tests := []struct {
		name    string
		owner   CategoryOwner
		wantErr error
	}{
		{"Survey owner", NewSurveyOwner(surveyID), nil},
		{"Section owner", NewSectionOwner(surveyID, "sec-1"), nil},
		{"Missing survey ID", CategoryOwner{Type: CategoryOwnerSurvey}, ErrInvalidCategoryOwner},
		{"Section owner without section", CategoryOwner{Type: CategoryOwnerSection, SurveyID: surveyID}, ErrInvalidCategoryOwner},
		{"Survey owner with section", CategoryOwner{Type: CategoryOwnerSurvey, SurveyID: surveyID, SectionID: "sec-1"}, ErrInvalidCategoryOwner},
		{"Invalid type", CategoryOwner{Type: "QUESTION", SurveyID: surveyID}, ErrInvalidCategoryOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.owner.Validate(); got != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestEvaluateRules(t *testing.T) {
	catID := primitive.NewObjectID()
	categories := []ResultCategory{
		{
			ID: catID,
			Rules: []ResultCategoryRule{
				{ID: "r1", Operation: RuleOpLessThan, Score: 40, Title: "Low"},
				{ID: "r2", Operation: RuleOpGreaterThan, Score: 70, Title: "High"},
				{ID: "r3", Operation: RuleOpElse, Title: "Moderate"},
			},
		},
	}

	tests := []struct {
		name       string
		percentage float64
		wantTitle  string
	}{
		{"Below lower bound", 39.9, "Low"},
		{"Exactly on lower bound falls through", 40, "Moderate"},
		{"Middle of range", 55, "Moderate"},
		{"Exactly on upper bound falls through", 70, "Moderate"},
		{"Above upper bound", 70.1, "High"},
		{"Zero", 0, "Low"},
		{"Full score", 100, "High"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := EvaluateRules(categories, tt.percentage)
			if match == nil {
				t.Fatalf("EvaluateRules(%v) = nil, want %q", tt.percentage, tt.wantTitle)
			}
			if match.Rule.Title != tt.wantTitle {
				t.Errorf("EvaluateRules(%v) = %q, want %q", tt.percentage, match.Rule.Title, tt.wantTitle)
			}
			if match.CategoryID != catID {
				t.Errorf("EvaluateRules(%v) category = %v, want %v", tt.percentage, match.CategoryID, catID)
			}
		})
	}
}

func TestEvaluateRules_OperationPriority(t *testing.T) {
	// A LESS_THAN in a later category still beats a GREATER_THAN in an earlier one
	categories := []ResultCategory{
		{
			ID: primitive.NewObjectID(),
			Rules: []ResultCategoryRule{
				{ID: "g", Operation: RuleOpGreaterThan, Score: 10, Title: "Greater"},
			},
		},
		{
			ID: primitive.NewObjectID(),
			Rules: []ResultCategoryRule{
				{ID: "l", Operation: RuleOpLessThan, Score: 90, Title: "Lesser"},
			},
		},
	}

	match := EvaluateRules(categories, 50)
	if match == nil {
		t.Fatal("EvaluateRules(50) = nil")
	}
	if match.Rule.Title != "Lesser" {
		t.Errorf("EvaluateRules(50) = %q, want %q", match.Rule.Title, "Lesser")
	}
}

func TestEvaluateRules_StoredOrderWins(t *testing.T) {
	// Two overlapping LESS_THAN rules: the earlier category wins
	categories := []ResultCategory{
		{
			ID: primitive.NewObjectID(),
			Rules: []ResultCategoryRule{
				{ID: "a", Operation: RuleOpLessThan, Score: 60, Title: "First"},
			},
		},
		{
			ID: primitive.NewObjectID(),
			Rules: []ResultCategoryRule{
				{ID: "b", Operation: RuleOpLessThan, Score: 80, Title: "Second"},
			},
		},
	}

	match := EvaluateRules(categories, 50)
	if match == nil {
		t.Fatal("EvaluateRules(50) = nil")
	}
	if match.Rule.Title != "First" {
		t.Errorf("EvaluateRules(50) = %q, want %q", match.Rule.Title, "First")
	}
}

func TestEvaluateRules_NoMatch(t *testing.T) {
	categories := []ResultCategory{
		{
			ID: primitive.NewObjectID(),
			Rules: []ResultCategoryRule{
				{ID: "l", Operation: RuleOpLessThan, Score: 40, Title: "Low"},
			},
		},
	}

	if match := EvaluateRules(categories, 40); match != nil {
		t.Errorf("EvaluateRules(40) = %v, want nil", match)
	}
	if match := EvaluateRules(nil, 50); match != nil {
		t.Errorf("EvaluateRules(nil) = %v, want nil", match)
	}
}

func TestResultCategory_Validate(t *testing.T) {
	surveyID := primitive.NewObjectID()

	tests := []struct {
		name     string
		category ResultCategory
		wantErr  error
	}{
		{
			"Valid category",
			ResultCategory{
				Owner: NewSurveyOwner(surveyID),
				Name:  "Brackets",
				Rules: []ResultCategoryRule{{ID: "r1", Operation: RuleOpElse, Title: "Default"}},
			},
			nil,
		},
		{
			"Invalid owner",
			ResultCategory{Name: "Brackets"},
			ErrInvalidCategoryOwner,
		},
		{
			"Invalid rule operation",
			ResultCategory{
				Owner: NewSurveyOwner(surveyID),
				Rules: []ResultCategoryRule{{ID: "r1", Operation: "BETWEEN", Title: "Bad"}},
			},
			ErrInvalidRuleOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.Validate(); got != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}
