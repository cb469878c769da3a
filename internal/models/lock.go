package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LockOperationType names the operation a lock protects
type LockOperationType string

const (
	LockOpSubmitFinal LockOperationType = "SUBMIT_FINAL"
	LockOpSaveAnswers LockOperationType = "SAVE_ANSWERS"
	LockOpRescore     LockOperationType = "RESCORE"
)

// MarshalJSON converts LockOperationType to lowercase for JSON serialization
func (ot LockOperationType) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(ot)))
}

// UnmarshalJSON converts lowercase JSON to LockOperationType
func (ot *LockOperationType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ot = LockOperationType(strings.ToUpper(s))
	return nil
}

// IsValid checks if the LockOperationType is a valid value
func (ot LockOperationType) IsValid() bool {
	switch ot {
	case LockOpSubmitFinal, LockOpSaveAnswers, LockOpRescore:
		return true
	}
	return false
}

// DefaultLockTimeout bounds how long a crashed holder can block resubmission
const DefaultLockTimeout = 30 * time.Second

// SurveyLock is a short-lived advisory lock keyed by an operation signature.
// Not a business entity; purely a double-submit guard, garbage-collected by expiry.
type SurveyLock struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LockKey    string             `bson:"lock_key" json:"lock_key"`
	ResponseID primitive.ObjectID `bson:"response_id" json:"response_id"`

	OperationType LockOperationType `bson:"operation_type" json:"operation_type"`

	AcquiredAt time.Time         `bson:"acquired_at" json:"acquired_at"`
	ExpiresAt  time.Time         `bson:"expires_at" json:"expires_at"`
	Metadata   map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// CollectionName returns the MongoDB collection name for survey locks
func (SurveyLock) CollectionName() string {
	return "survey_locks"
}

// BeforeCreate stamps acquisition time and assigns an ID
func (l *SurveyLock) BeforeCreate() {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	if l.AcquiredAt.IsZero() {
		l.AcquiredAt = time.Now().UTC()
	}
}

// IsExpired returns true if the lock has passed its expiry at the given instant
func (l *SurveyLock) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// SubmitLockKey builds the lock key guarding a response's final submission
func SubmitLockKey(responseID primitive.ObjectID) string {
	return "response:" + responseID.Hex() + ":submit"
}
