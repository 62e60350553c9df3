package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeeklyReport struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ActionPlanID       uuid.UUID      `json:"actionPlanId" gorm:"type:uuid;index;not null"`
	GoalID             uuid.UUID      `json:"goalId" gorm:"type:uuid;index;not null"` // denormalized from the plan
	UserID             uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Date               time.Time      `json:"date" gorm:"index;not null"`
	Accomplishments    string         `json:"accomplishments"`
	BlockersChallenges string         `json:"blockersChallenges"`
	LeadFeedback       string         `json:"leadFeedback"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

func (r *WeeklyReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CreateWeeklyReportRequest struct {
	ActionPlanID       uuid.UUID  `json:"actionPlanId" validate:"required"`
	Date               *time.Time `json:"date"`
	Accomplishments    string     `json:"accomplishments"`
	BlockersChallenges string     `json:"blockersChallenges"`
}

type UpdateWeeklyReportRequest struct {
	Accomplishments    *string `json:"accomplishments"`
	BlockersChallenges *string `json:"blockersChallenges"`
	LeadFeedback       *string `json:"leadFeedback"` // leader-only
}
