// Package analytics reduces raw, already access-filtered entity rows into
// dashboard rollups. Every function is pure: rows in, aggregates out, no
// persistence. Fetching (including chunked IN-list reads) lives with the
// callers.
package analytics

import (
	"math"
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
)

// Health bucket labels.
const (
	HealthOnTrack  = "onTrack"
	HealthAtRisk   = "atRisk"
	HealthHighRisk = "highRisk"
)

// stagnantAfter is how long an approved goal may sit at zero progress
// before it is flagged.
const stagnantAfter = 10 * 24 * time.Hour

// HealthBucket places a goal on the risk ladder by comparing its progress
// to where the elapsed fraction of its schedule says it should be. Goals
// without both dates (or with a non-positive duration) return "" and stay
// off the ladder.
func HealthBucket(g models.Goal, now time.Time) string {
	if g.StartDate == nil || g.TimeBound == nil {
		return ""
	}
	total := g.TimeBound.Sub(*g.StartDate)
	if total <= 0 {
		return ""
	}
	elapsed := now.Sub(*g.StartDate)
	expected := int(math.Round(float64(elapsed) / float64(total) * 100))
	if expected > 100 {
		expected = 100
	}
	if expected < 0 {
		expected = 0
	}
	switch {
	case g.Progress < expected-20:
		return HealthHighRisk
	case g.Progress < expected-10:
		return HealthAtRisk
	default:
		return HealthOnTrack
	}
}

// IsStagnant flags an approved goal with no progress more than ten days
// after its start. Independent of the risk ladder: a goal missing its
// target date can still be stagnant.
func IsStagnant(g models.Goal, now time.Time) bool {
	if g.CurrentReviewStatus() != models.ReviewApproved {
		return false
	}
	if g.Progress > 0 || g.StartDate == nil {
		return false
	}
	return now.Sub(*g.StartDate) > stagnantAfter
}

// HealthCounts tallies the ladder buckets and the independent stagnant flag
// across a set of goals.
type HealthCounts struct {
	OnTrack  int `json:"on_track"`
	AtRisk   int `json:"at_risk"`
	HighRisk int `json:"high_risk"`
	Stagnant int `json:"stagnant"`
}

func CountHealth(goals []models.Goal, now time.Time) HealthCounts {
	var counts HealthCounts
	for _, g := range goals {
		switch HealthBucket(g, now) {
		case HealthOnTrack:
			counts.OnTrack++
		case HealthAtRisk:
			counts.AtRisk++
		case HealthHighRisk:
			counts.HighRisk++
		}
		if IsStagnant(g, now) {
			counts.Stagnant++
		}
	}
	return counts
}

// EvidenceRate is the share of completed plans carrying a non-empty
// evidence link. Zero when nothing is completed, never a division error.
func EvidenceRate(plans []models.ActionPlan) float64 {
	completed, withEvidence := 0, 0
	for _, p := range plans {
		if p.Status != models.PlanStatusCompleted {
			continue
		}
		completed++
		if p.EvidenceLink != "" {
			withEvidence++
		}
	}
	if completed == 0 {
		return 0
	}
	return float64(withEvidence) / float64(completed)
}

// OverdueCount counts plans whose deadline passed without completion.
func OverdueCount(plans []models.ActionPlan, today time.Time) int {
	overdue := 0
	for _, p := range plans {
		if p.EndDate != nil && p.EndDate.Before(today) && p.Status != models.PlanStatusCompleted {
			overdue++
		}
	}
	return overdue
}

// ProgressHistogram buckets clamped progress values into
// [0,25) [25,50) [50,75) [75,100) {100}.
func ProgressHistogram(goals []models.Goal) [5]int {
	var buckets [5]int
	for _, g := range goals {
		p := g.Progress
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		switch {
		case p < 25:
			buckets[0]++
		case p < 50:
			buckets[1]++
		case p < 75:
			buckets[2]++
		case p < 100:
			buckets[3]++
		default:
			buckets[4]++
		}
	}
	return buckets
}
