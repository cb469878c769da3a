package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender represents a respondent's reported gender
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// MarshalJSON converts Gender to lowercase for JSON serialization
func (g Gender) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(g)))
}

// UnmarshalJSON converts lowercase JSON to Gender
func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = Gender(strings.ToUpper(s))
	return nil
}

// IsValid checks if the Gender is a valid value
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// MinBirthYear is the lowest birth year accepted from the respondent form
const MinBirthYear = 1900

// Respondent holds the demographic profile captured during the respondent-data step
// #DATA_ASSUMPTION: Created or updated exactly once per response
// #SECURITY_ASSUMPTION: Consent must be explicitly given before any answers are stored
type Respondent struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`

	Gender    Gender `bson:"gender" json:"gender"`
	BirthYear int    `bson:"birth_year" json:"birth_year"`

	Organization string `bson:"organization,omitempty" json:"organization,omitempty"`
	Department   string `bson:"department,omitempty" json:"department,omitempty"`
	RoleTitle    string `bson:"role_title,omitempty" json:"role_title,omitempty"`
	Location     string `bson:"location,omitempty" json:"location,omitempty"`

	Consent   bool       `bson:"consent" json:"consent"`
	ConsentAt *time.Time `bson:"consent_at,omitempty" json:"consent_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CollectionName returns the MongoDB collection name for respondents
func (Respondent) CollectionName() string {
	return "respondents"
}

// BeforeCreate sets default values before inserting a new respondent
func (r *Respondent) BeforeCreate() {
	now := time.Now().UTC()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Consent && r.ConsentAt == nil {
		r.ConsentAt = &now
	}
}

// BeforeUpdate sets the UpdatedAt timestamp
func (r *Respondent) BeforeUpdate() {
	r.UpdatedAt = time.Now().UTC()
}

// Validate checks the profile against the respondent-data form contract
func (r *Respondent) Validate(now time.Time) error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidInput
	}
	if !r.Gender.IsValid() {
		return ErrInvalidGender
	}
	if r.BirthYear < MinBirthYear || r.BirthYear > now.Year() {
		return ErrInvalidBirthYear
	}
	if !r.Consent {
		return ErrConsentRequired
	}
	return nil
}
