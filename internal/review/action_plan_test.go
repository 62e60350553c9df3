package review

import (
	"testing"
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDeadlineProposalGoesThroughRequestField(t *testing.T) {
	plan := models.ActionPlan{
		EndDate:             datePtr(2024, 6, 30),
		DeadlineChangeCount: 0,
	}

	updates, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		EndDate: datePtr(2024, 7, 15),
	})
	require.Nil(t, ruleErr)

	assert.Equal(t, 1, updates["deadline_change_count"])
	assert.Equal(t, *datePtr(2024, 7, 15), updates["request_deadline_date"])
	assert.Equal(t, models.ReviewPending, updates["review_status"])
	assert.Equal(t, true, updates["is_locked"])
	assert.Equal(t, "", updates["leader_review_notes"])
	// The stored deadline stays untouched until approval.
	assert.NotContains(t, updates, "end_date")
}

func TestUnchangedDeadlineIsNoop(t *testing.T) {
	plan := models.ActionPlan{EndDate: datePtr(2024, 6, 30)}

	updates, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		EndDate: datePtr(2024, 6, 30),
	})
	require.Nil(t, ruleErr)
	assert.Empty(t, updates)
}

func TestDeadlineComparedAgainstOutstandingProposal(t *testing.T) {
	plan := models.ActionPlan{
		EndDate:             datePtr(2024, 6, 30),
		RequestDeadlineDate: datePtr(2024, 7, 15),
		DeadlineChangeCount: 1,
	}

	// Resubmitting the outstanding proposal changes nothing.
	updates, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		EndDate: datePtr(2024, 7, 15),
	})
	require.Nil(t, ruleErr)
	assert.Empty(t, updates)
}

func TestDeadlineQuotaExhausted(t *testing.T) {
	plan := models.ActionPlan{
		EndDate:             datePtr(2024, 6, 30),
		DeadlineChangeCount: models.MaxDeadlineChanges,
	}

	updates, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		EndDate: datePtr(2024, 8, 1),
	})
	require.NotNil(t, ruleErr)
	assert.Equal(t, 409, ruleErr.Status)
	assert.Nil(t, updates)
}

func TestLockedPendingPlanAcceptsOnlyDeadline(t *testing.T) {
	plan := models.ActionPlan{
		IsLocked:            true,
		ReviewStatus:        reviewPtr(models.ReviewPending),
		EndDate:             datePtr(2024, 6, 30),
		RequestDeadlineDate: datePtr(2024, 7, 15),
		DeadlineChangeCount: 1,
	}

	_, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		Title: strPtr("renamed"),
	})
	require.NotNil(t, ruleErr)
	assert.Equal(t, 423, ruleErr.Status)

	// A pure deadline proposal is still allowed.
	updates, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		EndDate: datePtr(2024, 7, 20),
	})
	require.Nil(t, ruleErr)
	assert.Equal(t, 2, updates["deadline_change_count"])
}

func TestLockedPlanWithoutPendingRejectsEverything(t *testing.T) {
	plan := models.ActionPlan{IsLocked: true}

	_, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		EndDate: datePtr(2024, 7, 20),
	})
	require.NotNil(t, ruleErr)
	assert.Equal(t, 423, ruleErr.Status)
}

func TestStatusFrozenDuringPendingReview(t *testing.T) {
	plan := models.ActionPlan{
		Status:       models.PlanStatusInProgress,
		ReviewStatus: reviewPtr(models.ReviewPending),
	}

	_, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		Status: strPtr(models.PlanStatusCompleted),
	})
	require.NotNil(t, ruleErr)
	assert.Equal(t, 409, ruleErr.Status)

	// Re-sending the current status is not a change.
	updates, ruleErr := MemberPlanUpdate(plan, models.UpdateActionPlanRequest{
		Status: strPtr(models.PlanStatusInProgress),
	})
	require.Nil(t, ruleErr)
	assert.Equal(t, models.PlanStatusInProgress, updates["status"])
}

func TestDecidePlanApprovalCommitsDeadline(t *testing.T) {
	plan := models.ActionPlan{
		IsLocked:            true,
		ReviewStatus:        reviewPtr(models.ReviewPending),
		EndDate:             datePtr(2024, 6, 30),
		RequestDeadlineDate: datePtr(2024, 7, 15),
	}

	core, audit := DecidePlan(plan, models.ReviewApproved, "ok", uuid.New(), time.Now())

	assert.Equal(t, *datePtr(2024, 7, 15), core["end_date"])
	assert.Nil(t, core["request_deadline_date"])
	assert.Equal(t, false, core["is_locked"])
	assert.Contains(t, audit, "reviewed_by")
}

func TestDecidePlanRejectionDiscardsProposal(t *testing.T) {
	plan := models.ActionPlan{
		RequestDeadlineDate: datePtr(2024, 7, 15),
	}

	core, _ := DecidePlan(plan, models.ReviewRejected, "too late", uuid.New(), time.Now())

	assert.Nil(t, core["request_deadline_date"])
	assert.NotContains(t, core, "end_date")
	assert.Equal(t, false, core["is_locked"])
}

func TestDecidePlanUnknownDecisionStaysLocked(t *testing.T) {
	core, _ := DecidePlan(models.ActionPlan{}, "Hold", "", uuid.New(), time.Now())
	assert.Equal(t, models.ReviewPending, core["review_status"])
	assert.Equal(t, true, core["is_locked"])
}

func TestCanDeletePlan(t *testing.T) {
	assert.Nil(t, CanDeletePlan(models.ActionPlan{}))

	ruleErr := CanDeletePlan(models.ActionPlan{IsLocked: true})
	require.NotNil(t, ruleErr)
	assert.Equal(t, 423, ruleErr.Status)
}
