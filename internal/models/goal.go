package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal statuses. Free-form label in the column, but these are the values
// the state machine reasons about.
const (
	GoalStatusDraft      = "Draft"
	GoalStatusNotStarted = "Not started"
	GoalStatusInProgress = "In Progress"
	GoalStatusCompleted  = "Completed"
)

// Review statuses shared by goals and action plans.
const (
	ReviewPending   = "Pending"
	ReviewApproved  = "Approved"
	ReviewRejected  = "Rejected"
	ReviewCancelled = "Cancelled"
)

type Goal struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Year              int            `json:"year" gorm:"index;not null"`
	Title             string         `json:"title" gorm:"not null"`
	Description       string         `json:"description"`
	Progress          int            `json:"progress" gorm:"default:0"`
	Status            string         `json:"status" gorm:"default:'Not started'"`
	ReviewStatus      *string        `json:"reviewStatus"`
	IsLocked          bool           `json:"isLocked" gorm:"default:false"`
	StartDate         *time.Time     `json:"startDate"`
	TimeBound         *time.Time     `json:"timeBound"`
	LeaderReviewNotes string         `json:"leaderReviewNotes"`
	ReviewedBy        *uuid.UUID     `json:"reviewedBy" gorm:"type:uuid"`
	ReviewedAt        *time.Time     `json:"reviewedAt"`
	ApprovedAt        *time.Time     `json:"approvedAt"`
	RejectedAt        *time.Time     `json:"rejectedAt"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
	ActionPlans       []ActionPlan   `json:"actionPlans,omitempty" gorm:"foreignKey:GoalID"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// CurrentReviewStatus returns the review status or "" when unset.
func (g *Goal) CurrentReviewStatus() string {
	if g.ReviewStatus == nil {
		return ""
	}
	return *g.ReviewStatus
}

type CreateGoalRequest struct {
	Year        *int       `json:"year" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	TimeBound   *time.Time `json:"timeBound"`
}

// UpdateGoalRequest carries only the fields the caller supplied; nil means
// "not present in the payload", which the state machine's allow-lists need.
type UpdateGoalRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Progress    *int       `json:"progress"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	TimeBound   *time.Time `json:"timeBound"`
}

type ReviewDecisionRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment"`
}

type GoalProgressHistory struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID     uuid.UUID `json:"goalId" gorm:"type:uuid;index;not null"`
	Progress   int       `json:"progress"`
	RecordedAt time.Time `json:"recordedAt" gorm:"index;not null"`
}

func (h *GoalProgressHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
