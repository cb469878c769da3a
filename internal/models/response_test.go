package models

import (
	"testing"
)

func TestResponseStep_PathSegment(t *testing.T) {
	tests := []struct {
		name     string
		step     ResponseStep
		expected string
	}{
		{"Respondent data", StepRespondentData, "respondent-data"},
		{"Questions", StepQuestions, "questions"},
		{"Result", StepResult, "result"},
		{"Unknown step", ResponseStep(9), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.step.PathSegment(); got != tt.expected {
				t.Errorf("PathSegment() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStepFromPathSegment(t *testing.T) {
	tests := []struct {
		name     string
		segment  string
		expected ResponseStep
	}{
		{"Respondent data", "respondent-data", StepRespondentData},
		{"Questions", "questions", StepQuestions},
		{"Result", "result", StepResult},
		{"Unknown segment", "entry", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepFromPathSegment(tt.segment); got != tt.expected {
				t.Errorf("StepFromPathSegment() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResponseStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     ResponseStatus
		to       ResponseStatus
		expected bool
	}{
		{"Started -> InProgress", ResponseStatusStarted, ResponseStatusInProgress, true},
		{"Started -> Abandoned", ResponseStatusStarted, ResponseStatusAbandoned, true},
		{"Started -> Completed", ResponseStatusStarted, ResponseStatusCompleted, false},

		{"InProgress -> Completed", ResponseStatusInProgress, ResponseStatusCompleted, true},
		{"InProgress -> Abandoned", ResponseStatusInProgress, ResponseStatusAbandoned, true},
		{"InProgress -> Started", ResponseStatusInProgress, ResponseStatusStarted, false},

		{"Completed is terminal", ResponseStatusCompleted, ResponseStatusAbandoned, false},
		{"Abandoned is terminal", ResponseStatusAbandoned, ResponseStatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.expected {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResponse_AdvanceStep(t *testing.T) {
	response := &Response{}
	response.BeforeCreate()

	if response.CurrentStep != StepRespondentData {
		t.Fatalf("BeforeCreate() step = %v, want %v", response.CurrentStep, StepRespondentData)
	}

	// Skipping a step is rejected
	if err := response.AdvanceStep(StepResult); err != ErrInvalidStepTransition {
		t.Errorf("AdvanceStep(skip) error = %v, want %v", err, ErrInvalidStepTransition)
	}
	// Going backwards is rejected
	if err := response.AdvanceStep(StepRespondentData); err != ErrInvalidStepTransition {
		t.Errorf("AdvanceStep(same) error = %v, want %v", err, ErrInvalidStepTransition)
	}

	if err := response.AdvanceStep(StepQuestions); err != nil {
		t.Fatalf("AdvanceStep(questions) error = %v", err)
	}
	if err := response.AdvanceStep(StepResult); err != nil {
		t.Fatalf("AdvanceStep(result) error = %v", err)
	}

	// No step beyond result
	if err := response.AdvanceStep(StepResult + 1); err != ErrInvalidStepTransition {
		t.Errorf("AdvanceStep(beyond) error = %v, want %v", err, ErrInvalidStepTransition)
	}
}

func TestResponse_StatusLifecycle(t *testing.T) {
	response := &Response{}
	response.BeforeCreate()

	if response.Status != ResponseStatusStarted {
		t.Fatalf("BeforeCreate() status = %v, want %v", response.Status, ResponseStatusStarted)
	}

	// Completing directly from started is rejected
	if err := response.Complete(); err != ErrInvalidStatusTransition {
		t.Errorf("Complete() from started error = %v, want %v", err, ErrInvalidStatusTransition)
	}

	if err := response.MarkInProgress(); err != nil {
		t.Fatalf("MarkInProgress() error = %v", err)
	}
	// Idempotent
	if err := response.MarkInProgress(); err != nil {
		t.Errorf("MarkInProgress() second call error = %v", err)
	}

	if err := response.Complete(); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if response.SubmittedAt == nil {
		t.Error("Complete() did not set SubmittedAt")
	}

	// Terminal: no further transitions
	if err := response.Abandon(); err != ErrInvalidStatusTransition {
		t.Errorf("Abandon() after complete error = %v, want %v", err, ErrInvalidStatusTransition)
	}
	if err := response.MarkInProgress(); err != ErrInvalidStatusTransition {
		t.Errorf("MarkInProgress() after complete error = %v, want %v", err, ErrInvalidStatusTransition)
	}
}

func TestResponse_Abandon(t *testing.T) {
	tests := []struct {
		name    string
		status  ResponseStatus
		wantErr error
	}{
		{"From started", ResponseStatusStarted, nil},
		{"From in progress", ResponseStatusInProgress, nil},
		{"From completed", ResponseStatusCompleted, ErrInvalidStatusTransition},
		{"From abandoned", ResponseStatusAbandoned, ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := &Response{Status: tt.status}
			if got := response.Abandon(); got != tt.wantErr {
				t.Errorf("Abandon() = %v, want %v", got, tt.wantErr)
			}
			if tt.wantErr == nil && response.Status != ResponseStatusAbandoned {
				t.Errorf("Abandon() status = %v, want %v", response.Status, ResponseStatusAbandoned)
			}
		})
	}
}
