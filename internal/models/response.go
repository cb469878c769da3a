package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResponseStep represents the respondent's position in the guided flow
// #IMPLEMENTATION_DECISION: Steps are numeric so forward-only progression is a simple comparison
type ResponseStep int

const (
	StepRespondentData ResponseStep = 1
	StepQuestions      ResponseStep = 2
	StepResult         ResponseStep = 3
)

// IsValid checks if the ResponseStep is a valid value
func (rs ResponseStep) IsValid() bool {
	return rs >= StepRespondentData && rs <= StepResult
}

// PathSegment returns the canonical flow path segment for this step
func (rs ResponseStep) PathSegment() string {
	switch rs {
	case StepRespondentData:
		return "respondent-data"
	case StepQuestions:
		return "questions"
	case StepResult:
		return "result"
	}
	return ""
}

// StepFromPathSegment maps a flow path segment back to its step, or 0 if unknown
func StepFromPathSegment(segment string) ResponseStep {
	switch segment {
	case "respondent-data":
		return StepRespondentData
	case "questions":
		return StepQuestions
	case "result":
		return StepResult
	}
	return 0
}

// ResponseStatus represents the status of a response
type ResponseStatus string

const (
	ResponseStatusStarted    ResponseStatus = "STARTED"
	ResponseStatusInProgress ResponseStatus = "IN_PROGRESS"
	ResponseStatusCompleted  ResponseStatus = "COMPLETED"
	ResponseStatusAbandoned  ResponseStatus = "ABANDONED"
)

// MarshalJSON converts ResponseStatus to lowercase for JSON serialization
func (rs ResponseStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(rs)))
}

// UnmarshalJSON converts lowercase JSON to ResponseStatus
func (rs *ResponseStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*rs = ResponseStatus(strings.ToUpper(s))
	return nil
}

// IsValid checks if the ResponseStatus is a valid value
func (rs ResponseStatus) IsValid() bool {
	switch rs {
	case ResponseStatusStarted, ResponseStatusInProgress, ResponseStatusCompleted, ResponseStatusAbandoned:
		return true
	}
	return false
}

// IsTerminal returns true if no further transition is allowed from this status
func (rs ResponseStatus) IsTerminal() bool {
	return rs == ResponseStatusCompleted || rs == ResponseStatusAbandoned
}

// CanTransitionTo checks if a status transition is allowed
// #BUSINESS_RULE: Started -> InProgress -> Completed is one-directional;
// Abandoned is reachable from any non-terminal status
func (rs ResponseStatus) CanTransitionTo(to ResponseStatus) bool {
	switch rs {
	case ResponseStatusStarted:
		return to == ResponseStatusInProgress || to == ResponseStatusAbandoned
	case ResponseStatusInProgress:
		return to == ResponseStatusCompleted || to == ResponseStatusAbandoned
	}
	return false
}

// ResponseMeta carries request metadata recorded with a response
type ResponseMeta struct {
	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Referer   string `bson:"referer,omitempty" json:"referer,omitempty"`
}

// Response represents one respondent's attempt at a survey
// #DATA_ASSUMPTION: RespondentToken is the only proof of identity for anonymous flows
// #CARDINALITY_ASSUMPTION: Survey 1:N Responses, Response 0..1 Respondent
type Response struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SurveyID     primitive.ObjectID  `bson:"survey_id" json:"survey_id"`
	RespondentID *primitive.ObjectID `bson:"respondent_id,omitempty" json:"respondent_id,omitempty"`

	RespondentToken string `bson:"respondent_token" json:"-"`

	CurrentStep ResponseStep   `bson:"current_step" json:"current_step"`
	Status      ResponseStatus `bson:"status" json:"status"`

	StartedAt   time.Time  `bson:"started_at" json:"started_at"`
	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`

	Meta ResponseMeta `bson:"meta,omitempty" json:"meta,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for responses
func (Response) CollectionName() string {
	return "responses"
}

// BeforeCreate sets default values before inserting a new response
func (r *Response) BeforeCreate() {
	now := time.Now().UTC()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	r.StartedAt = now
	r.CurrentStep = StepRespondentData
	r.Status = ResponseStatusStarted
}

// BeforeUpdate sets the UpdatedAt timestamp
func (r *Response) BeforeUpdate() {
	r.UpdatedAt = time.Now().UTC()
}

// IsCompleted returns true if the response has been completed
func (r *Response) IsCompleted() bool {
	return r.Status == ResponseStatusCompleted
}

// IsAbandoned returns true if the response has been abandoned
func (r *Response) IsAbandoned() bool {
	return r.Status == ResponseStatusAbandoned
}

// AdvanceStep moves the response to the next step.
// #BUSINESS_RULE: current_step only advances forward one step at a time, never skips
func (r *Response) AdvanceStep(to ResponseStep) error {
	if !to.IsValid() || to != r.CurrentStep+1 {
		return ErrInvalidStepTransition
	}
	r.CurrentStep = to
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkInProgress transitions the status to InProgress. No-op when already there.
func (r *Response) MarkInProgress() error {
	if r.Status == ResponseStatusInProgress {
		return nil
	}
	if !r.Status.CanTransitionTo(ResponseStatusInProgress) {
		return ErrInvalidStatusTransition
	}
	r.Status = ResponseStatusInProgress
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete marks the response completed and stamps the submission time
func (r *Response) Complete() error {
	if !r.Status.CanTransitionTo(ResponseStatusCompleted) {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	r.Status = ResponseStatusCompleted
	r.SubmittedAt = &now
	r.UpdatedAt = now
	return nil
}

// Abandon marks the response abandoned. Allowed any time before completion.
func (r *Response) Abandon() error {
	if r.Status.IsTerminal() {
		return ErrInvalidStatusTransition
	}
	r.Status = ResponseStatusAbandoned
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// LinkRespondent attaches a respondent profile to the response
func (r *Response) LinkRespondent(respondentID primitive.ObjectID) {
	r.RespondentID = &respondentID
	r.UpdatedAt = time.Now().UTC()
}
