package models

import "errors"

// Model validation and operation errors
var (
	// General errors
	ErrNotFound                = errors.New("resource not found")
	ErrAlreadyExists           = errors.New("resource already exists")
	ErrInvalidInput            = errors.New("invalid input")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// Survey errors
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrSurveyNotDraft     = errors.New("survey is not in draft status")
	ErrSurveyNotActive    = errors.New("survey is not accepting responses")
	ErrSurveyNotStarted   = errors.New("survey has not started yet")
	ErrSurveyEnded        = errors.New("survey has already ended")
	ErrSurveyNotEditable  = errors.New("survey cannot be edited (not draft)")
	ErrSurveyNotDeletable = errors.New("survey cannot be deleted (not draft)")
	ErrCodeAlreadyExists  = errors.New("survey code already exists")
	ErrInvalidVisibility  = errors.New("invalid survey visibility")

	// Section errors
	ErrSectionNotFound    = errors.New("section not found")
	ErrSectionNotEmpty    = errors.New("section still contains questions")
	ErrInvalidSectionList = errors.New("reorder list does not match survey sections")

	// Question errors
	ErrQuestionNotFound       = errors.New("question not found")
	ErrQuestionNotInSection   = errors.New("question does not belong to the given section")
	ErrInvalidQuestionType    = errors.New("invalid question type")
	ErrMissingQuestionChoices = errors.New("choice questions require choices")
	ErrInvalidChoiceID        = errors.New("invalid choice ID")
	ErrInvalidAnswerFormat    = errors.New("invalid answer format")
	ErrRequiredUnanswered     = errors.New("required question has no answer")

	// Respondent errors
	ErrRespondentNotFound = errors.New("respondent not found")
	ErrConsentRequired    = errors.New("respondent consent is required")
	ErrInvalidGender      = errors.New("invalid gender value")
	ErrInvalidBirthYear   = errors.New("birth year out of range")

	// Response errors
	ErrResponseNotFound         = errors.New("response not found")
	ErrResponseCompleted        = errors.New("response has already been completed")
	ErrResponseAbandoned        = errors.New("response has been abandoned")
	ErrResponseNotCompleted     = errors.New("response has not been completed")
	ErrResponseSurveyMismatch   = errors.New("response belongs to a different survey")
	ErrInvalidStepTransition    = errors.New("response step can only advance forward")
	ErrTokenAlreadyExists       = errors.New("respondent token already exists")

	// Session errors
	ErrSessionInvalid  = errors.New("invalid session, re-enter code")
	ErrSessionStale    = errors.New("session does not match any response")
	ErrSessionMismatch = errors.New("requested step does not match response state")

	// Answer errors
	ErrAnswerNotFound      = errors.New("answer not found")
	ErrAnswerValueConflict = errors.New("answer must carry exactly one value kind")

	// Score errors
	ErrScoreNotFound      = errors.New("score has not been computed")
	ErrScoreInputMissing  = errors.New("scoring input incomplete")

	// Result category errors
	ErrCategoryNotFound      = errors.New("result category not found")
	ErrInvalidRuleOperation  = errors.New("invalid rule operation")
	ErrInvalidCategoryOwner  = errors.New("invalid result category owner")

	// Lock errors
	ErrLockNotAcquired = errors.New("lock is held by another operation")
	ErrLockNotFound    = errors.New("lock not found")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is inactive")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSurveyNotFound) ||
		errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrRespondentNotFound) ||
		errors.Is(err, ErrResponseNotFound) ||
		errors.Is(err, ErrAnswerNotFound) ||
		errors.Is(err, ErrScoreNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrLockNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidationError returns true if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrInvalidStepTransition) ||
		errors.Is(err, ErrInvalidQuestionType) ||
		errors.Is(err, ErrMissingQuestionChoices) ||
		errors.Is(err, ErrInvalidChoiceID) ||
		errors.Is(err, ErrInvalidAnswerFormat) ||
		errors.Is(err, ErrRequiredUnanswered) ||
		errors.Is(err, ErrConsentRequired) ||
		errors.Is(err, ErrInvalidGender) ||
		errors.Is(err, ErrInvalidBirthYear) ||
		errors.Is(err, ErrInvalidVisibility) ||
		errors.Is(err, ErrInvalidSectionList) ||
		errors.Is(err, ErrInvalidRuleOperation) ||
		errors.Is(err, ErrInvalidCategoryOwner) ||
		errors.Is(err, ErrAnswerValueConflict)
}

// IsSessionError returns true if the error should send the respondent back to the entry step
func IsSessionError(err error) bool {
	return errors.Is(err, ErrSessionInvalid) ||
		errors.Is(err, ErrSessionStale) ||
		errors.Is(err, ErrSessionMismatch) ||
		errors.Is(err, ErrSurveyNotActive) ||
		errors.Is(err, ErrSurveyNotStarted) ||
		errors.Is(err, ErrSurveyEnded)
}

// IsConflictError returns true if the error is a conflict/duplicate error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrCodeAlreadyExists) ||
		errors.Is(err, ErrTokenAlreadyExists) ||
		errors.Is(err, ErrEmailAlreadyExists) ||
		errors.Is(err, ErrLockNotAcquired) ||
		errors.Is(err, ErrResponseCompleted) ||
		errors.Is(err, ErrResponseAbandoned) ||
		errors.Is(err, ErrResponseNotCompleted) ||
		errors.Is(err, ErrSurveyNotEditable) ||
		errors.Is(err, ErrSurveyNotDeletable) ||
		errors.Is(err, ErrSectionNotEmpty)
}

// IsOwnershipError returns true if the error is a cross-resource ownership error
func IsOwnershipError(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrQuestionNotInSection) ||
		errors.Is(err, ErrResponseSurveyMismatch)
}
