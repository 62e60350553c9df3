package analytics

import (
	"sort"
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/arnold/okrtrack-api/internal/period"
)

// Streak counts consecutive weeks with at least one report, walking
// backward from the week containing now and stopping at the first gap.
// Activity older than the gap does not count.
func Streak(reports []models.WeeklyReport, now time.Time) int {
	if len(reports) == 0 {
		return 0
	}
	active := map[string]bool{}
	for _, r := range reports {
		active[period.WeekKey(r.Date)] = true
	}

	streak := 0
	week := period.WeekStart(now)
	for active[week.Format("2006-01-02")] {
		streak++
		week = week.AddDate(0, 0, -7)
	}
	return streak
}

// WeeksWithActivity counts the distinct window weeks holding at least one
// report, gaps included.
func WeeksWithActivity(reports []models.WeeklyReport, now time.Time, weeks int) int {
	start := period.WindowStart(now, weeks)
	seen := map[string]bool{}
	for _, r := range reports {
		if r.Date.Before(start) || r.Date.After(now) {
			continue
		}
		seen[period.WeekKey(r.Date)] = true
	}
	return len(seen)
}

// ReportsInWindow counts reports dated inside the window.
func ReportsInWindow(reports []models.WeeklyReport, now time.Time, weeks int) int {
	start := period.WindowStart(now, weeks)
	n := 0
	for _, r := range reports {
		if !r.Date.Before(start) && !r.Date.After(now) {
			n++
		}
	}
	return n
}

// BlockerCount is one entry of the top-blockers list.
type BlockerCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// TopBlockers frequency-counts non-empty blocker text across the window's
// reports and returns the top n, ties kept in first-seen order.
func TopBlockers(reports []models.WeeklyReport, now time.Time, weeks, n int) []BlockerCount {
	start := period.WindowStart(now, weeks)
	counts := map[string]int{}
	order := []string{}
	for _, r := range reports {
		if r.BlockersChallenges == "" || r.Date.Before(start) || r.Date.After(now) {
			continue
		}
		if _, seen := counts[r.BlockersChallenges]; !seen {
			order = append(order, r.BlockersChallenges)
		}
		counts[r.BlockersChallenges]++
	}

	out := make([]BlockerCount, 0, len(order))
	for _, text := range order {
		out = append(out, BlockerCount{Text: text, Count: counts[text]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TrendPoint is one week of the activity series.
type TrendPoint struct {
	WeekKey       string `json:"week"`
	Reports       int    `json:"reports"`
	ActiveMembers int    `json:"active_members"`
}

// WeeklyTrend evaluates per-week activity independently across the window,
// oldest to newest.
func WeeklyTrend(reports []models.WeeklyReport, now time.Time, weeks int) []TrendPoint {
	keys := period.WeekKeys(now, weeks)
	byWeek := map[string][]models.WeeklyReport{}
	for _, r := range reports {
		k := period.WeekKey(r.Date)
		byWeek[k] = append(byWeek[k], r)
	}

	trend := make([]TrendPoint, len(keys))
	for i, k := range keys {
		weekReports := byWeek[k]
		members := map[string]bool{}
		for _, r := range weekReports {
			members[r.UserID.String()] = true
		}
		trend[i] = TrendPoint{WeekKey: k, Reports: len(weekReports), ActiveMembers: len(members)}
	}
	return trend
}
