package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action plan statuses.
const (
	PlanStatusNotStarted = "Not Started"
	PlanStatusInProgress = "In Progress"
	PlanStatusBlocked    = "Blocked"
	PlanStatusCompleted  = "Completed"
)

// MaxDeadlineChanges caps how many times a member may propose a new
// end date for a single action plan.
const MaxDeadlineChanges = 3

type ActionPlan struct {
	ID                  uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID              uuid.UUID      `json:"goalId" gorm:"type:uuid;index;not null"`
	Title               string         `json:"title" gorm:"not null"`
	Description         string         `json:"description"`
	Status              string         `json:"status" gorm:"default:'Not Started'"`
	StartDate           *time.Time     `json:"startDate"`
	EndDate             *time.Time     `json:"endDate"`
	RequestDeadlineDate *time.Time     `json:"requestDeadlineDate"`
	DeadlineChangeCount int            `json:"deadlineChangeCount" gorm:"default:0"`
	EvidenceLink        string         `json:"evidenceLink"`
	ReviewStatus        *string        `json:"reviewStatus"`
	IsLocked            bool           `json:"isLocked" gorm:"default:false"`
	LeaderReviewNotes   string         `json:"leaderReviewNotes"`
	ReviewedBy          *uuid.UUID     `json:"reviewedBy" gorm:"type:uuid"`
	ReviewedAt          *time.Time     `json:"reviewedAt"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *ActionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *ActionPlan) CurrentReviewStatus() string {
	if p.ReviewStatus == nil {
		return ""
	}
	return *p.ReviewStatus
}

// EffectiveDeadline is the deadline a new proposal is compared against:
// an outstanding proposal if one exists, else the stored end date.
func (p *ActionPlan) EffectiveDeadline() *time.Time {
	if p.RequestDeadlineDate != nil {
		return p.RequestDeadlineDate
	}
	return p.EndDate
}

type CreateActionPlanRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type UpdateActionPlanRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	EvidenceLink *string    `json:"evidenceLink"`
}
