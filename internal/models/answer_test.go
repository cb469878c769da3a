package models

import (
	"testing"
)

func TestAnswer_Validate(t *testing.T) {
	num := 3.0

	tests := []struct {
		name    string
		answer  Answer
		wantErr error
	}{
		{"Choice ID only", Answer{ChoiceID: "c1"}, nil},
		{"Choice IDs only", Answer{ChoiceIDs: []string{"c1", "c2"}}, nil},
		{"Text only", Answer{ValueText: "hello"}, nil},
		{"Number only", Answer{ValueNumber: &num}, nil},
		{"No value", Answer{}, ErrAnswerValueConflict},
		{"Two value kinds", Answer{ChoiceID: "c1", ValueText: "hello"}, ErrAnswerValueConflict},
		{"Choice ID and choice IDs", Answer{ChoiceID: "c1", ChoiceIDs: []string{"c2"}}, ErrAnswerValueConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.answer.Validate(); got != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestAnswer_IsEmpty(t *testing.T) {
	empty := Answer{}
	if !empty.IsEmpty() {
		t.Error("IsEmpty() = false for empty answer")
	}

	filled := Answer{ChoiceID: "c1"}
	if filled.IsEmpty() {
		t.Error("IsEmpty() = true for filled answer")
	}
}
