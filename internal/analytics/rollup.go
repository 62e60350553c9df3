package analytics

import (
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/arnold/okrtrack-api/internal/period"
	"github.com/google/uuid"
)

// topBlockerLimit caps the blockers list on every rollup.
const topBlockerLimit = 5

// MemberInput is the raw, pre-filtered row set one member's rollup reduces.
type MemberInput struct {
	Goals         []models.Goal
	Plans         []models.ActionPlan
	Reports       []models.WeeklyReport
	History       []models.GoalProgressHistory
	Verifications []models.VerificationRequest
}

// MemberRollup is the per-member dashboard payload.
type MemberRollup struct {
	UserID               uuid.UUID      `json:"user_id"`
	GoalsTotal           int            `json:"goals_total"`
	AvgProgress          float64        `json:"avg_progress"`
	Health               HealthCounts   `json:"health"`
	ProgressHistogram    [5]int         `json:"progress_histogram"`
	ProgressDelta        float64        `json:"progress_delta"`
	PlansTotal           int            `json:"plans_total"`
	PlansCompleted       int            `json:"plans_completed"`
	PlansOverdue         int            `json:"plans_overdue"`
	EvidenceRate         float64        `json:"evidence_rate"`
	ReportsInWindow      int            `json:"reports_in_window"`
	WeeksWithActivity    int            `json:"weeks_with_activity"`
	StreakWeeks          int            `json:"streak_weeks"`
	TopBlockers          []BlockerCount `json:"top_blockers"`
	VerificationsPending int            `json:"verifications_pending"`
	VerificationsDone    int            `json:"verifications_reviewed"`
}

// ReduceMember computes one member's rollup. Empty inputs produce all-zero
// values, never an error.
func ReduceMember(userID uuid.UUID, in MemberInput, now time.Time, weeks int) MemberRollup {
	r := MemberRollup{
		UserID:            userID,
		GoalsTotal:        len(in.Goals),
		Health:            CountHealth(in.Goals, now),
		ProgressHistogram: ProgressHistogram(in.Goals),
		ProgressDelta:     ProgressDelta(in.Goals, in.History, now),
		PlansTotal:        len(in.Plans),
		PlansOverdue:      OverdueCount(in.Plans, now),
		EvidenceRate:      EvidenceRate(in.Plans),
		ReportsInWindow:   ReportsInWindow(in.Reports, now, weeks),
		WeeksWithActivity: WeeksWithActivity(in.Reports, now, weeks),
		StreakWeeks:       Streak(in.Reports, now),
		TopBlockers:       TopBlockers(in.Reports, now, weeks, topBlockerLimit),
	}

	progressSum := 0
	for _, g := range in.Goals {
		progressSum += g.Progress
	}
	if len(in.Goals) > 0 {
		r.AvgProgress = float64(progressSum) / float64(len(in.Goals))
	}

	for _, p := range in.Plans {
		if p.Status == models.PlanStatusCompleted {
			r.PlansCompleted++
		}
	}
	for _, v := range in.Verifications {
		switch v.Status {
		case models.VerificationReviewed:
			r.VerificationsDone++
		default:
			r.VerificationsPending++
		}
	}
	return r
}

// TeamRollup aggregates member rollups plus team-level activity.
type TeamRollup struct {
	TeamID            uuid.UUID      `json:"team_id"`
	MembersTotal      int            `json:"members_total"`
	ActiveMembers     int            `json:"active_members"`
	ActiveRate        float64        `json:"active_rate"`
	GoalsTotal        int            `json:"goals_total"`
	AvgProgress       float64        `json:"avg_progress"`
	Health            HealthCounts   `json:"health"`
	ProgressDelta     float64        `json:"progress_delta"`
	PlansOverdue      int            `json:"plans_overdue"`
	EvidenceRate      float64        `json:"evidence_rate"`
	ReportsInWindow   int            `json:"reports_in_window"`
	TopBlockers       []BlockerCount `json:"top_blockers"`
	WeeklyTrend       []TrendPoint   `json:"weekly_trend"`
	Members           []MemberRollup `json:"members"`
}

// ReduceTeam reduces a whole team: each member independently, then
// team-wide sums and the adoption rate. activeMembers counts members with
// a report in the current week.
func ReduceTeam(teamID uuid.UUID, memberIDs []uuid.UUID, inputs map[uuid.UUID]MemberInput, now time.Time, weeks int) TeamRollup {
	t := TeamRollup{
		TeamID:       teamID,
		MembersTotal: len(memberIDs),
		Members:      make([]MemberRollup, 0, len(memberIDs)),
	}

	currentWeek := period.WeekKey(now)
	var allReports []models.WeeklyReport
	var allPlans []models.ActionPlan
	progressSum, goalCount := 0, 0
	deltaSum := 0.0

	for _, uid := range memberIDs {
		in := inputs[uid]
		m := ReduceMember(uid, in, now, weeks)
		t.Members = append(t.Members, m)

		t.GoalsTotal += m.GoalsTotal
		t.Health.OnTrack += m.Health.OnTrack
		t.Health.AtRisk += m.Health.AtRisk
		t.Health.HighRisk += m.Health.HighRisk
		t.Health.Stagnant += m.Health.Stagnant
		t.PlansOverdue += m.PlansOverdue
		t.ReportsInWindow += m.ReportsInWindow
		deltaSum += m.ProgressDelta

		for _, g := range in.Goals {
			progressSum += g.Progress
			goalCount++
		}
		allPlans = append(allPlans, in.Plans...)
		allReports = append(allReports, in.Reports...)

		for _, r := range in.Reports {
			if period.WeekKey(r.Date) == currentWeek {
				t.ActiveMembers++
				break
			}
		}
	}

	if goalCount > 0 {
		t.AvgProgress = float64(progressSum) / float64(goalCount)
	}
	if t.MembersTotal > 0 {
		t.ActiveRate = float64(t.ActiveMembers) / float64(t.MembersTotal)
		t.ProgressDelta = deltaSum / float64(t.MembersTotal)
	}
	t.EvidenceRate = EvidenceRate(allPlans)
	t.TopBlockers = TopBlockers(allReports, now, weeks, topBlockerLimit)
	t.WeeklyTrend = WeeklyTrend(allReports, now, weeks)

	return t
}

// OrgRollup is the cross-team view.
type OrgRollup struct {
	TeamsTotal      int          `json:"teams_total"`
	MembersTotal    int          `json:"members_total"`
	ActiveMembers   int          `json:"active_members"`
	ActiveRate      float64      `json:"active_rate"`
	GoalsTotal      int          `json:"goals_total"`
	AvgProgress     float64      `json:"avg_progress"`
	Health          HealthCounts `json:"health"`
	PlansOverdue    int          `json:"plans_overdue"`
	ReportsInWindow int          `json:"reports_in_window"`
	Teams           []TeamRollup `json:"teams"`
}

// ReduceOrg sums team rollups; averages are goal-weighted.
func ReduceOrg(teams []TeamRollup) OrgRollup {
	org := OrgRollup{TeamsTotal: len(teams), Teams: teams}
	progressWeighted := 0.0
	for _, t := range teams {
		org.MembersTotal += t.MembersTotal
		org.ActiveMembers += t.ActiveMembers
		org.GoalsTotal += t.GoalsTotal
		org.Health.OnTrack += t.Health.OnTrack
		org.Health.AtRisk += t.Health.AtRisk
		org.Health.HighRisk += t.Health.HighRisk
		org.Health.Stagnant += t.Health.Stagnant
		org.PlansOverdue += t.PlansOverdue
		org.ReportsInWindow += t.ReportsInWindow
		progressWeighted += t.AvgProgress * float64(t.GoalsTotal)
	}
	if org.GoalsTotal > 0 {
		org.AvgProgress = progressWeighted / float64(org.GoalsTotal)
	}
	if org.MembersTotal > 0 {
		org.ActiveRate = float64(org.ActiveMembers) / float64(org.MembersTotal)
	}
	return org
}
