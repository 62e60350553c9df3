package analytics

import (
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/arnold/okrtrack-api/internal/period"
)

// DeltaLookbackDays bounds how far back history is read when computing
// deltas for a W-week window: max(14, W*7) days.
func DeltaLookbackDays(weeks int) int {
	days := weeks * 7
	if days < 14 {
		days = 14
	}
	return days
}

// ProgressDelta averages the week-over-week progress change across goals.
// "Current" is the latest snapshot at or before now, "previous" the latest
// at or before the start of the current week. A goal with no history falls
// back to its live progress on both sides and contributes zero.
func ProgressDelta(goals []models.Goal, history []models.GoalProgressHistory, now time.Time) float64 {
	if len(goals) == 0 {
		return 0
	}

	byGoal := map[string][]models.GoalProgressHistory{}
	for _, h := range history {
		if h.RecordedAt.After(now) {
			continue
		}
		k := h.GoalID.String()
		byGoal[k] = append(byGoal[k], h)
	}

	weekStart := period.WeekStart(now)
	total := 0.0
	for _, g := range goals {
		snapshots := byGoal[g.ID.String()]
		if len(snapshots) == 0 {
			continue // current == previous == live progress, delta 0
		}

		current := g.Progress
		var currentAt, previousAt time.Time
		previous := -1
		haveCurrent := false
		for _, s := range snapshots {
			if !haveCurrent || s.RecordedAt.After(currentAt) {
				current, currentAt = s.Progress, s.RecordedAt
				haveCurrent = true
			}
			if !s.RecordedAt.After(weekStart) && (previous < 0 || s.RecordedAt.After(previousAt)) {
				previous, previousAt = s.Progress, s.RecordedAt
			}
		}
		if previous < 0 {
			// No snapshot before this week: treat previous as current.
			previous = current
		}
		total += float64(current - previous)
	}
	return total / float64(len(goals))
}
