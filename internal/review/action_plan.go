package review

import (
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/google/uuid"
)

// MemberPlanUpdate builds the column updates for an owner editing an action
// plan. A new end date never lands in end_date directly: it goes through
// request_deadline_date and a forced review, and at most three such
// proposals are allowed over the plan's lifetime.
func MemberPlanUpdate(p models.ActionPlan, req models.UpdateActionPlanRequest) (map[string]interface{}, *RuleError) {
	pending := p.CurrentReviewStatus() == models.ReviewPending

	if p.IsLocked && pending {
		if req.Title != nil || req.Description != nil || req.Status != nil ||
			req.StartDate != nil || req.EvidenceLink != nil {
			return nil, locked("Action plan is locked for review; only a deadline proposal is accepted")
		}
	} else if p.IsLocked {
		return nil, locked("Action plan is locked for review")
	}

	// Status is frozen while a review is pending.
	if pending && req.Status != nil && *req.Status != p.Status {
		return nil, conflict("Status cannot change while a review is pending")
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
	if req.EvidenceLink != nil {
		updates["evidence_link"] = *req.EvidenceLink
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if req.EndDate != nil {
		effective := p.EffectiveDeadline()
		if effective == nil || !req.EndDate.Equal(*effective) {
			if p.DeadlineChangeCount >= models.MaxDeadlineChanges {
				return nil, conflict("Deadline change limit reached")
			}
			updates["deadline_change_count"] = p.DeadlineChangeCount + 1
			updates["request_deadline_date"] = *req.EndDate
			updates["review_status"] = models.ReviewPending
			updates["is_locked"] = true
			updates["leader_review_notes"] = ""
		}
		// end_date itself stays untouched until a leader approves.
	}

	return updates, nil
}

// DecidePlan applies a leader decision to an action plan. Approval commits
// an outstanding deadline proposal into end_date; rejection discards it.
func DecidePlan(p models.ActionPlan, decision, comment string, reviewer uuid.UUID, now time.Time) (core, audit map[string]interface{}) {
	normalized := normalizeDecision(decision)

	core = map[string]interface{}{
		"review_status":       normalized,
		"is_locked":           decisionLocksEntity(decision),
		"leader_review_notes": comment,
	}

	switch normalized {
	case models.ReviewApproved:
		if p.RequestDeadlineDate != nil {
			core["end_date"] = *p.RequestDeadlineDate
			core["request_deadline_date"] = nil
		}
	case models.ReviewRejected:
		if p.RequestDeadlineDate != nil {
			core["request_deadline_date"] = nil
		}
	}

	audit = map[string]interface{}{
		"reviewed_by": reviewer,
		"reviewed_at": now,
	}

	return core, audit
}

// CanDeletePlan rejects deletion while a review holds the plan locked.
func CanDeletePlan(p models.ActionPlan) *RuleError {
	if p.IsLocked {
		return locked("Action plan is locked for review")
	}
	return nil
}
