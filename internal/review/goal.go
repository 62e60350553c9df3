package review

import (
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/google/uuid"
)

// RequestGoalReview validates a member asking for leader review.
// Requires at least one action plan and no approved or in-flight review.
func RequestGoalReview(g models.Goal, planCount int) (map[string]interface{}, *RuleError) {
	switch g.CurrentReviewStatus() {
	case models.ReviewApproved:
		return nil, conflict("Goal is already approved")
	case models.ReviewPending:
		return nil, conflict("Review already requested")
	}
	if planCount == 0 {
		return nil, conflict("Goal needs at least one action plan before review")
	}

	return map[string]interface{}{
		"review_status": models.ReviewPending,
		"is_locked":     true,
	}, nil
}

// CancelGoalReview withdraws a member's own review request.
func CancelGoalReview(g models.Goal) (map[string]interface{}, *RuleError) {
	if g.CurrentReviewStatus() == models.ReviewApproved {
		return nil, conflict("Approved goals cannot have their review cancelled")
	}

	return map[string]interface{}{
		"review_status": models.ReviewCancelled,
		"is_locked":     false,
	}, nil
}

// DecideGoal applies a leader decision. The core map always applies; the
// audit map holds optional reviewer columns the caller writes with the
// schema fallback.
func DecideGoal(g models.Goal, decision, comment string, reviewer uuid.UUID, now time.Time) (core, audit map[string]interface{}) {
	normalized := normalizeDecision(decision)

	core = map[string]interface{}{
		"review_status":       normalized,
		"is_locked":           decisionLocksEntity(decision),
		"leader_review_notes": comment,
	}

	// Approval moves a goal that never started into execution.
	if normalized == models.ReviewApproved &&
		(g.Status == models.GoalStatusNotStarted || g.Status == models.GoalStatusDraft) {
		core["status"] = models.GoalStatusInProgress
	}

	audit = map[string]interface{}{
		"reviewed_by": reviewer,
		"reviewed_at": now,
	}
	switch normalized {
	case models.ReviewApproved:
		audit["approved_at"] = now
	case models.ReviewRejected:
		audit["rejected_at"] = now
	}

	return core, audit
}

// MemberGoalUpdate builds the column updates for an owner editing their
// goal. Approved goals accept progress/status only; any other locked state
// accepts nothing.
func MemberGoalUpdate(g models.Goal, req models.UpdateGoalRequest) (map[string]interface{}, *RuleError) {
	approved := g.CurrentReviewStatus() == models.ReviewApproved

	if g.IsLocked && !approved {
		return nil, locked("Goal is locked for review")
	}
	if approved {
		if req.Title != nil || req.Description != nil || req.StartDate != nil || req.TimeBound != nil {
			return nil, locked("Approved goals only accept progress and status updates")
		}
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.TimeBound != nil {
		updates["time_bound"] = *req.TimeBound
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Progress != nil {
		p := clampProgress(*req.Progress)
		updates["progress"] = p
		if p >= 100 {
			updates["status"] = models.GoalStatusCompleted
		}
	}

	return updates, nil
}

// CanDeleteGoal rejects deletion while a review holds the goal locked.
func CanDeleteGoal(g models.Goal) *RuleError {
	if g.IsLocked {
		return locked("Goal is locked for review")
	}
	return nil
}

// CanCreateWeeklyReport gates member-submitted reports on both parents
// being in flight. Leaders may file reports regardless.
func CanCreateWeeklyReport(g models.Goal, p models.ActionPlan, isLeader bool) *RuleError {
	if isLeader {
		return nil
	}
	if g.Status != models.GoalStatusInProgress {
		return conflict("Goal is not in progress")
	}
	if p.Status != models.PlanStatusInProgress && p.Status != models.PlanStatusBlocked {
		return conflict("Action plan is not in progress or blocked")
	}
	return nil
}
