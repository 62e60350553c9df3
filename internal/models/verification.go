package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification request statuses.
const (
	VerificationPending  = "Pending"
	VerificationReviewed = "Reviewed"
)

// Verification review results.
const (
	VerificationPass      = "Pass"
	VerificationNeedsWork = "NeedsWork"
	VerificationFail      = "Fail"
)

// VerificationTemplate is an optional rubric a request can reference.
type VerificationTemplate struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Criteria    []string       `json:"criteria" gorm:"serializer:json"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (t *VerificationTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type VerificationRequest struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID        uuid.UUID      `json:"goalId" gorm:"type:uuid;index;not null"`
	UserID        uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	ActionPlanID  *uuid.UUID     `json:"actionPlanId" gorm:"type:uuid"`
	TemplateID    *uuid.UUID     `json:"templateId" gorm:"type:uuid"`
	Scope         string         `json:"scope"`
	EvidenceLinks []string       `json:"evidenceLinks" gorm:"serializer:json"`
	Status        string         `json:"status" gorm:"default:'Pending'"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (v *VerificationRequest) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// VerificationReview holds at most one leader grade per request
// (upsert-by-request).
type VerificationReview struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	RequestID      uuid.UUID      `json:"requestId" gorm:"type:uuid;uniqueIndex;not null"`
	ReviewerID     uuid.UUID      `json:"reviewerId" gorm:"type:uuid;not null"`
	Result         string         `json:"result" gorm:"not null"`
	Scores         map[string]int `json:"scores" gorm:"serializer:json"`
	LeaderFeedback string         `json:"leaderFeedback"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (r *VerificationReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CreateVerificationRequest struct {
	GoalID        uuid.UUID  `json:"goalId" validate:"required"`
	ActionPlanID  *uuid.UUID `json:"actionPlanId"`
	TemplateID    *uuid.UUID `json:"templateId"`
	Scope         string     `json:"scope"`
	EvidenceLinks []string   `json:"evidenceLinks"`
}

type SubmitVerificationReviewRequest struct {
	Result         string         `json:"result" validate:"required,oneof=Pass NeedsWork Fail"`
	Scores         map[string]int `json:"scores"`
	LeaderFeedback string         `json:"leaderFeedback"`
}
