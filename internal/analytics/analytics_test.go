package analytics

import (
	"testing"
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time { return &t }

func reviewPtr(s string) *string { return &s }

// now is a Wednesday; the week runs 2024-07-08 .. 2024-07-14.
var testNow = time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

func reportOn(userID uuid.UUID, date time.Time, blockers string) models.WeeklyReport {
	return models.WeeklyReport{
		ID:                 uuid.New(),
		UserID:             userID,
		Date:               date,
		BlockersChallenges: blockers,
	}
}

func TestHealthBucketLadder(t *testing.T) {
	start := testNow.AddDate(0, 0, -50)
	end := testNow.AddDate(0, 0, 50)
	// Halfway through the schedule: expected = 50.
	goal := models.Goal{StartDate: datePtr(start), TimeBound: datePtr(end)}

	goal.Progress = 55
	assert.Equal(t, HealthOnTrack, HealthBucket(goal, testNow))

	goal.Progress = 45 // >= expected-10
	assert.Equal(t, HealthOnTrack, HealthBucket(goal, testNow))

	goal.Progress = 35 // < expected-10
	assert.Equal(t, HealthAtRisk, HealthBucket(goal, testNow))

	goal.Progress = 25 // < expected-20
	assert.Equal(t, HealthHighRisk, HealthBucket(goal, testNow))
}

func TestHealthBucketNeedsBothDates(t *testing.T) {
	assert.Equal(t, "", HealthBucket(models.Goal{}, testNow))
	assert.Equal(t, "", HealthBucket(models.Goal{StartDate: datePtr(testNow)}, testNow))

	// Non-positive duration stays off the ladder.
	same := datePtr(testNow)
	assert.Equal(t, "", HealthBucket(models.Goal{StartDate: same, TimeBound: same}, testNow))
}

func TestHealthBucketExpectedCapsAtHundred(t *testing.T) {
	// Schedule long over: expected capped to 100.
	goal := models.Goal{
		StartDate: datePtr(testNow.AddDate(0, 0, -200)),
		TimeBound: datePtr(testNow.AddDate(0, 0, -100)),
		Progress:  95,
	}
	assert.Equal(t, HealthOnTrack, HealthBucket(goal, testNow))
}

func TestStagnantIndependentOfLadder(t *testing.T) {
	goal := models.Goal{
		ReviewStatus: reviewPtr(models.ReviewApproved),
		Progress:     0,
		StartDate:    datePtr(testNow.AddDate(0, 0, -11)),
		// No TimeBound: excluded from the risk ladder, still stagnant.
	}
	assert.True(t, IsStagnant(goal, testNow))
	assert.Equal(t, "", HealthBucket(goal, testNow))

	goal.StartDate = datePtr(testNow.AddDate(0, 0, -9))
	assert.False(t, IsStagnant(goal, testNow))

	goal.StartDate = datePtr(testNow.AddDate(0, 0, -11))
	goal.Progress = 5
	assert.False(t, IsStagnant(goal, testNow))

	goal.Progress = 0
	goal.ReviewStatus = nil
	assert.False(t, IsStagnant(goal, testNow))
}

func TestEvidenceRateNeverDividesByZero(t *testing.T) {
	assert.Equal(t, 0.0, EvidenceRate(nil))
	assert.Equal(t, 0.0, EvidenceRate([]models.ActionPlan{
		{Status: models.PlanStatusInProgress, EvidenceLink: "http://x"},
	}))
}

func TestEvidenceRate(t *testing.T) {
	plans := []models.ActionPlan{
		{Status: models.PlanStatusCompleted, EvidenceLink: "http://a"},
		{Status: models.PlanStatusCompleted},
		{Status: models.PlanStatusInProgress, EvidenceLink: "http://b"},
	}
	assert.InDelta(t, 0.5, EvidenceRate(plans), 1e-9)
}

func TestOverdueCount(t *testing.T) {
	plans := []models.ActionPlan{
		{Status: models.PlanStatusInProgress, EndDate: datePtr(testNow.AddDate(0, 0, -1))},
		{Status: models.PlanStatusCompleted, EndDate: datePtr(testNow.AddDate(0, 0, -1))},
		{Status: models.PlanStatusInProgress, EndDate: datePtr(testNow.AddDate(0, 0, 1))},
		{Status: models.PlanStatusInProgress},
	}
	assert.Equal(t, 1, OverdueCount(plans, testNow))
}

func TestStreakCountsContiguousWeeks(t *testing.T) {
	uid := uuid.New()
	reports := []models.WeeklyReport{
		reportOn(uid, testNow, ""),                     // current week
		reportOn(uid, testNow.AddDate(0, 0, -7), ""),   // W-1
		reportOn(uid, testNow.AddDate(0, 0, -14), ""),  // W-2
		reportOn(uid, testNow.AddDate(0, 0, -21), ""),  // W-3
	}
	assert.Equal(t, 4, Streak(reports, testNow))
}

func TestStreakStopsAtFirstGap(t *testing.T) {
	uid := uuid.New()
	reports := []models.WeeklyReport{
		reportOn(uid, testNow, ""),                    // current week
		reportOn(uid, testNow.AddDate(0, 0, -7), ""),  // W-1
		// gap at W-2
		reportOn(uid, testNow.AddDate(0, 0, -21), ""), // W-3, ignored
	}
	assert.Equal(t, 2, Streak(reports, testNow))
}

func TestStreakZeroWithoutCurrentWeek(t *testing.T) {
	uid := uuid.New()
	reports := []models.WeeklyReport{
		reportOn(uid, testNow.AddDate(0, 0, -7), ""),
	}
	assert.Equal(t, 0, Streak(reports, testNow))
	assert.Equal(t, 0, Streak(nil, testNow))
}

func TestTopBlockersOrderedAndCapped(t *testing.T) {
	uid := uuid.New()
	reports := []models.WeeklyReport{
		reportOn(uid, testNow, "waiting on design"),
		reportOn(uid, testNow, "flaky environment"),
		reportOn(uid, testNow, "waiting on design"),
		reportOn(uid, testNow, ""),
		reportOn(uid, testNow, "access request stuck"),
	}

	top := TopBlockers(reports, testNow, 8, 5)
	require.Len(t, top, 3)
	assert.Equal(t, BlockerCount{Text: "waiting on design", Count: 2}, top[0])
	// Tie between the two singles: first-seen order wins.
	assert.Equal(t, "flaky environment", top[1].Text)
	assert.Equal(t, "access request stuck", top[2].Text)
}

func TestTopBlockersLimit(t *testing.T) {
	uid := uuid.New()
	var reports []models.WeeklyReport
	for _, b := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		reports = append(reports, reportOn(uid, testNow, b))
	}
	assert.Len(t, TopBlockers(reports, testNow, 8, 5), 5)
}

func TestProgressDeltaNoHistoryContributesZero(t *testing.T) {
	goals := []models.Goal{{ID: uuid.New(), Progress: 40}}
	assert.Equal(t, 0.0, ProgressDelta(goals, nil, testNow))
}

func TestProgressDeltaWeekOverWeek(t *testing.T) {
	goalID := uuid.New()
	goals := []models.Goal{{ID: goalID, Progress: 60}}
	weekStart := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)

	history := []models.GoalProgressHistory{
		{GoalID: goalID, Progress: 30, RecordedAt: weekStart.AddDate(0, 0, -3)}, // previous
		{GoalID: goalID, Progress: 20, RecordedAt: weekStart.AddDate(0, 0, -10)},
		{GoalID: goalID, Progress: 55, RecordedAt: testNow.AddDate(0, 0, -1)}, // current
	}

	assert.InDelta(t, 25.0, ProgressDelta(goals, history, testNow), 1e-9)
}

func TestProgressDeltaAveragesAcrossGoals(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	goals := []models.Goal{{ID: a, Progress: 50}, {ID: b, Progress: 10}}
	weekStart := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)

	history := []models.GoalProgressHistory{
		{GoalID: a, Progress: 40, RecordedAt: weekStart.AddDate(0, 0, -1)},
		{GoalID: a, Progress: 50, RecordedAt: testNow.AddDate(0, 0, -1)},
		// goal b has no history: contributes 0
	}

	assert.InDelta(t, 5.0, ProgressDelta(goals, history, testNow), 1e-9)
}

func TestProgressHistogramEdges(t *testing.T) {
	goals := []models.Goal{
		{Progress: -10}, {Progress: 0}, {Progress: 24},
		{Progress: 25}, {Progress: 49},
		{Progress: 50},
		{Progress: 75}, {Progress: 99},
		{Progress: 100}, {Progress: 140},
	}
	assert.Equal(t, [5]int{3, 2, 1, 2, 2}, ProgressHistogram(goals))
}

func TestReduceMemberEmptyInputs(t *testing.T) {
	r := ReduceMember(uuid.New(), MemberInput{}, testNow, 8)

	assert.Equal(t, 0, r.GoalsTotal)
	assert.Equal(t, 0, r.ReportsInWindow)
	assert.Equal(t, 0, r.WeeksWithActivity)
	assert.Equal(t, 0, r.StreakWeeks)
	assert.Empty(t, r.TopBlockers)
	assert.Equal(t, 0.0, r.EvidenceRate)
	assert.Equal(t, 0.0, r.ProgressDelta)
}

func TestReduceTeamActiveRate(t *testing.T) {
	teamID := uuid.New()
	active, idle := uuid.New(), uuid.New()
	inputs := map[uuid.UUID]MemberInput{
		active: {Reports: []models.WeeklyReport{reportOn(active, testNow, "")}},
		idle:   {},
	}

	rollup := ReduceTeam(teamID, []uuid.UUID{active, idle}, inputs, testNow, 8)

	assert.Equal(t, 2, rollup.MembersTotal)
	assert.Equal(t, 1, rollup.ActiveMembers)
	assert.InDelta(t, 0.5, rollup.ActiveRate, 1e-9)
	require.Len(t, rollup.WeeklyTrend, 8)
	last := rollup.WeeklyTrend[7]
	assert.Equal(t, "2024-07-08", last.WeekKey)
	assert.Equal(t, 1, last.Reports)
	assert.Equal(t, 1, last.ActiveMembers)
}

func TestReduceTeamEmpty(t *testing.T) {
	rollup := ReduceTeam(uuid.New(), nil, nil, testNow, 8)
	assert.Equal(t, 0.0, rollup.ActiveRate)
	assert.Equal(t, 0, rollup.GoalsTotal)
}

func TestReduceOrg(t *testing.T) {
	teams := []TeamRollup{
		{MembersTotal: 4, ActiveMembers: 2, GoalsTotal: 10, AvgProgress: 50},
		{MembersTotal: 6, ActiveMembers: 3, GoalsTotal: 5, AvgProgress: 80},
	}

	org := ReduceOrg(teams)
	assert.Equal(t, 2, org.TeamsTotal)
	assert.Equal(t, 10, org.MembersTotal)
	assert.InDelta(t, 0.5, org.ActiveRate, 1e-9)
	assert.InDelta(t, 60.0, org.AvgProgress, 1e-9) // goal-weighted
}

func TestReduceOrgEmpty(t *testing.T) {
	org := ReduceOrg(nil)
	assert.Equal(t, 0.0, org.ActiveRate)
	assert.Equal(t, 0.0, org.AvgProgress)
}
