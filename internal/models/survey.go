package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyStatus represents the lifecycle status of a survey
// #IMPLEMENTATION_DECISION: DRAFT -> ACTIVE -> CLOSED lifecycle
type SurveyStatus string

const (
	SurveyStatusDraft  SurveyStatus = "DRAFT"
	SurveyStatusActive SurveyStatus = "ACTIVE"
	SurveyStatusClosed SurveyStatus = "CLOSED"
)

// MarshalJSON converts SurveyStatus to lowercase for JSON serialization
func (ss SurveyStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(ss)))
}

// UnmarshalJSON converts lowercase JSON to SurveyStatus
func (ss *SurveyStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ss = SurveyStatus(strings.ToUpper(s))
	return nil
}

// IsValid checks if the SurveyStatus is a valid value
func (ss SurveyStatus) IsValid() bool {
	switch ss {
	case SurveyStatusDraft, SurveyStatusActive, SurveyStatusClosed:
		return true
	}
	return false
}

// SurveyVisibility controls who can reach a survey
type SurveyVisibility string

const (
	SurveyVisibilityPrivate SurveyVisibility = "PRIVATE"
	SurveyVisibilityPublic  SurveyVisibility = "PUBLIC"
)

// MarshalJSON converts SurveyVisibility to lowercase for JSON serialization
func (sv SurveyVisibility) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(sv)))
}

// UnmarshalJSON converts lowercase JSON to SurveyVisibility
func (sv *SurveyVisibility) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*sv = SurveyVisibility(strings.ToUpper(s))
	return nil
}

// IsValid checks if the SurveyVisibility is a valid value
func (sv SurveyVisibility) IsValid() bool {
	switch sv {
	case SurveyVisibilityPrivate, SurveyVisibilityPublic:
		return true
	}
	return false
}

// SurveySection represents an ordered section within a survey
// #NORMALIZATION_DECISION: Sections embedded - always read with the survey, never queried alone
// #DATA_ASSUMPTION: Section order is densely renumbered 1..N after every mutation
type SurveySection struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Order       int    `bson:"order" json:"order"`
}

// Survey represents a multi-section survey that respondents answer through the guided flow
// #CARDINALITY_ASSUMPTION: Survey 1:N Sections, Section 1:N Questions
// #DATA_ASSUMPTION: Responses are accepted only while ACTIVE and inside the date window
type Survey struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code string             `bson:"code" json:"code"`

	// Basic info
	Title       string           `bson:"title" json:"title"`
	Description string           `bson:"description,omitempty" json:"description,omitempty"`
	Status      SurveyStatus     `bson:"status" json:"status"`
	Visibility  SurveyVisibility `bson:"visibility" json:"visibility"`

	// Response window (open bounds when nil)
	StartsAt *time.Time `bson:"starts_at,omitempty" json:"starts_at,omitempty"`
	EndsAt   *time.Time `bson:"ends_at,omitempty" json:"ends_at,omitempty"`

	// Sections (embedded, ordered)
	Sections []SurveySection `bson:"sections" json:"sections"`

	// Audit fields
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	ClosedAt    *time.Time `bson:"closed_at,omitempty" json:"closed_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for surveys
func (Survey) CollectionName() string {
	return "surveys"
}

// BeforeCreate sets default values before inserting a new survey
func (s *Survey) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	s.Status = SurveyStatusDraft

	if s.Visibility == "" {
		s.Visibility = SurveyVisibilityPrivate
	}
	if s.Sections == nil {
		s.Sections = []SurveySection{}
	}
	s.NormalizeSectionOrders()
}

// BeforeUpdate sets the UpdatedAt timestamp
func (s *Survey) BeforeUpdate() {
	s.UpdatedAt = time.Now().UTC()
}

// Publish marks the survey as active
func (s *Survey) Publish() error {
	if s.Status != SurveyStatusDraft {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	s.Status = SurveyStatusActive
	s.PublishedAt = &now
	s.UpdatedAt = now
	return nil
}

// Close marks the survey as closed
func (s *Survey) Close() error {
	if s.Status != SurveyStatusActive {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	s.Status = SurveyStatusClosed
	s.ClosedAt = &now
	s.UpdatedAt = now
	return nil
}

// IsDraft returns true if the survey is in draft status
func (s *Survey) IsDraft() bool {
	return s.Status == SurveyStatusDraft
}

// IsActive returns true if the survey is active
func (s *Survey) IsActive() bool {
	return s.Status == SurveyStatusActive
}

// CanBeEdited returns true if the survey structure can be edited
func (s *Survey) CanBeEdited() bool {
	return s.IsDraft()
}

// CanBeDeleted returns true if the survey can be deleted
func (s *Survey) CanBeDeleted() bool {
	return s.IsDraft()
}

// CanAcceptResponses reports whether a response may be started or continued
// at the given instant. Returns a window error for out-of-window surveys so callers
// can distinguish "not started" from "ended".
func (s *Survey) CanAcceptResponses(now time.Time) error {
	if s.Status != SurveyStatusActive {
		return ErrSurveyNotActive
	}
	if s.StartsAt != nil && now.Before(*s.StartsAt) {
		return ErrSurveyNotStarted
	}
	if s.EndsAt != nil && now.After(*s.EndsAt) {
		return ErrSurveyEnded
	}
	return nil
}

// GetSectionByID returns a section by its ID
func (s *Survey) GetSectionByID(sectionID string) *SurveySection {
	for i := range s.Sections {
		if s.Sections[i].ID == sectionID {
			return &s.Sections[i]
		}
	}
	return nil
}

// AddSection appends a section and renumbers orders densely.
// The requested order is honored as an insertion point when inside 1..N.
func (s *Survey) AddSection(section SurveySection) *SurveySection {
	if section.ID == "" {
		section.ID = uuid.New().String()
	}
	if section.Order <= 0 || section.Order > len(s.Sections) {
		s.Sections = append(s.Sections, section)
	} else {
		idx := section.Order - 1
		s.Sections = append(s.Sections[:idx], append([]SurveySection{section}, s.Sections[idx:]...)...)
	}
	s.NormalizeSectionOrders()
	s.UpdatedAt = time.Now().UTC()
	return s.GetSectionByID(section.ID)
}

// RemoveSection removes a section by ID and renumbers the rest
func (s *Survey) RemoveSection(sectionID string) error {
	for i := range s.Sections {
		if s.Sections[i].ID == sectionID {
			s.Sections = append(s.Sections[:i], s.Sections[i+1:]...)
			s.NormalizeSectionOrders()
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrSectionNotFound
}

// ReorderSections rearranges sections to match the given ID sequence.
// The sequence must be a permutation of the current section IDs.
func (s *Survey) ReorderSections(orderedIDs []string) error {
	if len(orderedIDs) != len(s.Sections) {
		return ErrInvalidSectionList
	}
	reordered := make([]SurveySection, 0, len(s.Sections))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return ErrInvalidSectionList
		}
		seen[id] = true
		section := s.GetSectionByID(id)
		if section == nil {
			return ErrInvalidSectionList
		}
		reordered = append(reordered, *section)
	}
	s.Sections = reordered
	s.NormalizeSectionOrders()
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// NormalizeSectionOrders reassigns section order values to a contiguous 1..N range
func (s *Survey) NormalizeSectionOrders() {
	for i := range s.Sections {
		s.Sections[i].Order = i + 1
	}
}

// SectionCount returns the number of sections in the survey
func (s *Survey) SectionCount() int {
	return len(s.Sections)
}
