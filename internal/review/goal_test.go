package review

import (
	"testing"
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func reviewPtr(s string) *string { return &s }

func TestRequestGoalReviewLocks(t *testing.T) {
	goal := models.Goal{Status: models.GoalStatusNotStarted}

	updates, ruleErr := RequestGoalReview(goal, 1)
	require.Nil(t, ruleErr)
	assert.Equal(t, models.ReviewPending, updates["review_status"])
	assert.Equal(t, true, updates["is_locked"])
}

func TestRequestGoalReviewNeedsActionPlan(t *testing.T) {
	goal := models.Goal{}

	_, ruleErr := RequestGoalReview(goal, 0)
	require.NotNil(t, ruleErr)
	assert.Equal(t, 409, ruleErr.Status)
}

func TestRequestGoalReviewTwiceConflicts(t *testing.T) {
	goal := models.Goal{ReviewStatus: reviewPtr(models.ReviewPending), IsLocked: true}

	_, ruleErr := RequestGoalReview(goal, 1)
	require.NotNil(t, ruleErr)
	assert.Equal(t, 409, ruleErr.Status)
}

func TestRequestGoalReviewAfterApprovalConflicts(t *testing.T) {
	goal := models.Goal{ReviewStatus: reviewPtr(models.ReviewApproved)}

	_, ruleErr := RequestGoalReview(goal, 1)
	require.NotNil(t, ruleErr)
	assert.Equal(t, 409, ruleErr.Status)
}

func TestCancelGoalReviewUnlocks(t *testing.T) {
	goal := models.Goal{ReviewStatus: reviewPtr(models.ReviewPending), IsLocked: true}

	updates, ruleErr := CancelGoalReview(goal)
	require.Nil(t, ruleErr)
	assert.Equal(t, models.ReviewCancelled, updates["review_status"])
	assert.Equal(t, false, updates["is_locked"])
}

func TestCancelApprovedGoalReviewConflicts(t *testing.T) {
	goal := models.Goal{ReviewStatus: reviewPtr(models.ReviewApproved)}

	_, ruleErr := CancelGoalReview(goal)
	require.NotNil(t, ruleErr)
	assert.Equal(t, 409, ruleErr.Status)
}

func TestDecideGoalApprovalAdvancesStatus(t *testing.T) {
	goal := models.Goal{
		Status:       models.GoalStatusNotStarted,
		ReviewStatus: reviewPtr(models.ReviewPending),
		IsLocked:     true,
	}
	reviewer := uuid.New()
	now := time.Now()

	core, audit := DecideGoal(goal, models.ReviewApproved, "looks good", reviewer, now)

	assert.Equal(t, models.ReviewApproved, core["review_status"])
	assert.Equal(t, false, core["is_locked"])
	assert.Equal(t, models.GoalStatusInProgress, core["status"])
	assert.Equal(t, "looks good", core["leader_review_notes"])
	assert.Equal(t, reviewer, audit["reviewed_by"])
	assert.Equal(t, now, audit["approved_at"])
}

func TestDecideGoalApprovalKeepsRunningStatus(t *testing.T) {
	goal := models.Goal{Status: models.GoalStatusInProgress}

	core, _ := DecideGoal(goal, models.ReviewApproved, "", uuid.New(), time.Now())
	_, changed := core["status"]
	assert.False(t, changed)
}

func TestDecideGoalRejectionUnlocks(t *testing.T) {
	goal := models.Goal{IsLocked: true}

	core, audit := DecideGoal(goal, models.ReviewRejected, "needs detail", uuid.New(), time.Now())
	assert.Equal(t, models.ReviewRejected, core["review_status"])
	assert.Equal(t, false, core["is_locked"])
	assert.Contains(t, audit, "rejected_at")
	assert.NotContains(t, audit, "approved_at")
}

func TestDecideGoalUnknownDecisionStaysLocked(t *testing.T) {
	goal := models.Goal{}

	core, _ := DecideGoal(goal, "Escalated", "", uuid.New(), time.Now())
	assert.Equal(t, models.ReviewPending, core["review_status"])
	assert.Equal(t, true, core["is_locked"])
}

func TestMemberGoalUpdateWhileLockedRejected(t *testing.T) {
	goal := models.Goal{ReviewStatus: reviewPtr(models.ReviewPending), IsLocked: true}

	_, ruleErr := MemberGoalUpdate(goal, models.UpdateGoalRequest{Progress: intPtr(50)})
	require.NotNil(t, ruleErr)
	assert.Equal(t, 423, ruleErr.Status)
}

func TestMemberGoalUpdateApprovedAllowsProgressAndStatus(t *testing.T) {
	goal := models.Goal{ReviewStatus: reviewPtr(models.ReviewApproved)}

	updates, ruleErr := MemberGoalUpdate(goal, models.UpdateGoalRequest{
		Progress: intPtr(40),
		Status:   strPtr(models.GoalStatusInProgress),
	})
	require.Nil(t, ruleErr)
	assert.Equal(t, 40, updates["progress"])
	assert.Equal(t, models.GoalStatusInProgress, updates["status"])
}

func TestMemberGoalUpdateApprovedRejectsOtherFields(t *testing.T) {
	goal := models.Goal{ReviewStatus: reviewPtr(models.ReviewApproved)}

	_, ruleErr := MemberGoalUpdate(goal, models.UpdateGoalRequest{
		Progress: intPtr(40),
		Title:    strPtr("reworded"),
	})
	require.NotNil(t, ruleErr)
	assert.Equal(t, 423, ruleErr.Status)
}

func TestMemberGoalUpdateClampsProgress(t *testing.T) {
	goal := models.Goal{}

	updates, ruleErr := MemberGoalUpdate(goal, models.UpdateGoalRequest{Progress: intPtr(180)})
	require.Nil(t, ruleErr)
	assert.Equal(t, 100, updates["progress"])
	assert.Equal(t, models.GoalStatusCompleted, updates["status"])

	updates, ruleErr = MemberGoalUpdate(goal, models.UpdateGoalRequest{Progress: intPtr(-5)})
	require.Nil(t, ruleErr)
	assert.Equal(t, 0, updates["progress"])
}

func TestFullProgressForcesCompletedOverStatus(t *testing.T) {
	goal := models.Goal{}

	updates, ruleErr := MemberGoalUpdate(goal, models.UpdateGoalRequest{
		Progress: intPtr(100),
		Status:   strPtr(models.GoalStatusInProgress),
	})
	require.Nil(t, ruleErr)
	assert.Equal(t, models.GoalStatusCompleted, updates["status"])
}

func TestCanDeleteGoal(t *testing.T) {
	assert.Nil(t, CanDeleteGoal(models.Goal{}))

	ruleErr := CanDeleteGoal(models.Goal{IsLocked: true})
	require.NotNil(t, ruleErr)
	assert.Equal(t, 423, ruleErr.Status)
}

func TestCanCreateWeeklyReport(t *testing.T) {
	inProgress := models.Goal{Status: models.GoalStatusInProgress}

	assert.Nil(t, CanCreateWeeklyReport(inProgress, models.ActionPlan{Status: models.PlanStatusInProgress}, false))
	assert.Nil(t, CanCreateWeeklyReport(inProgress, models.ActionPlan{Status: models.PlanStatusBlocked}, false))

	ruleErr := CanCreateWeeklyReport(inProgress, models.ActionPlan{Status: models.PlanStatusCompleted}, false)
	require.NotNil(t, ruleErr)
	assert.Equal(t, 409, ruleErr.Status)

	notStarted := models.Goal{Status: models.GoalStatusNotStarted}
	ruleErr = CanCreateWeeklyReport(notStarted, models.ActionPlan{Status: models.PlanStatusInProgress}, false)
	require.NotNil(t, ruleErr)
	assert.Equal(t, 409, ruleErr.Status)

	// Leaders bypass the precondition.
	assert.Nil(t, CanCreateWeeklyReport(notStarted, models.ActionPlan{Status: models.PlanStatusCompleted}, true))
}
