package handlers

import (
	"time"

	"github.com/arnold/okrtrack-api/internal/analytics"
	"github.com/arnold/okrtrack-api/internal/database"
	"github.com/arnold/okrtrack-api/internal/middleware"
	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/arnold/okrtrack-api/internal/period"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxWeeks = 26

	// reportScanPageSize / maxReportScanPages bound the paged report scan:
	// at most 200 pages regardless of how pathological the data is.
	reportScanPageSize = 500
	maxReportScanPages = 200
)

// defaultWeeks is the dashboard window when the request carries no
// ?weeks= parameter. Overridden at startup from DASHBOARD_WEEKS.
var defaultWeeks = 8

// SetDefaultWeeks installs the configured dashboard window. Values
// outside [1, maxWeeks] are ignored and the built-in default stands.
func SetDefaultWeeks(weeks int) {
	if weeks >= 1 && weeks <= maxWeeks {
		defaultWeeks = weeks
	}
}

func parseWeeks(c *fiber.Ctx) int {
	weeks := c.QueryInt("weeks", defaultWeeks)
	if weeks < 1 || weeks > maxWeeks {
		weeks = defaultWeeks
	}
	return weeks
}

// loadMemberInput pulls one member's raw rows for the window. Plan,
// report and history reads chunk their goal-id IN lists.
func loadMemberInput(db *gorm.DB, userID uuid.UUID, now time.Time, weeks int) (analytics.MemberInput, error) {
	var in analytics.MemberInput

	if err := db.Where("user_id = ?", userID).Find(&in.Goals).Error; err != nil {
		return in, err
	}
	if len(in.Goals) == 0 {
		return in, nil
	}

	goalIDs := make([]uuid.UUID, len(in.Goals))
	for i, g := range in.Goals {
		goalIDs[i] = g.ID
	}

	for _, chunk := range period.ChunkIDs(goalIDs, period.DefaultChunkSize) {
		var plans []models.ActionPlan
		if err := db.Where("goal_id IN ?", chunk).Find(&plans).Error; err != nil {
			return in, err
		}
		in.Plans = append(in.Plans, plans...)

		reports, err := scanReports(db, chunk, period.WindowStart(now, weeks), now)
		if err != nil {
			return in, err
		}
		in.Reports = append(in.Reports, reports...)

		cutoff := now.AddDate(0, 0, -analytics.DeltaLookbackDays(weeks))
		var history []models.GoalProgressHistory
		if err := db.Where("goal_id IN ? AND recorded_at >= ?", chunk, cutoff).Find(&history).Error; err != nil {
			return in, err
		}
		in.History = append(in.History, history...)
	}

	if err := db.Where("user_id = ?", userID).Find(&in.Verifications).Error; err != nil {
		return in, err
	}

	return in, nil
}

// scanReports pages through window reports for a set of goals with a hard
// iteration ceiling so the loop always terminates.
func scanReports(db *gorm.DB, goalIDs []uuid.UUID, from, to time.Time) ([]models.WeeklyReport, error) {
	var all []models.WeeklyReport
	for page := 0; page < maxReportScanPages; page++ {
		var batch []models.WeeklyReport
		err := db.Where("goal_id IN ? AND date >= ? AND date <= ?", goalIDs, from, to).
			Order("date").
			Offset(page * reportScanPageSize).
			Limit(reportScanPageSize).
			Find(&batch).Error
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < reportScanPageSize {
			break
		}
	}
	return all, nil
}

// GetMyDashboard returns the caller's own rollup.
func GetMyDashboard(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	weeks := parseWeeks(c)
	now := time.Now()

	in, err := loadMemberInput(database.DB, identity.UserID, now, weeks)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dashboard data",
		})
	}

	return c.JSON(analytics.ReduceMember(identity.UserID, in, now, weeks))
}

// GetTeamDashboard returns a team rollup. Leaders may only read their own
// team; managers may read any.
func GetTeamDashboard(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only leaders and managers can read team dashboards",
		})
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid team ID",
		})
	}

	var team models.Team
	if err := database.DB.First(&team, "id = ?", teamID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Team not found",
		})
	}

	if identity.IsLeader() && !identity.IsManager() {
		var leader models.User
		if err := database.DB.First(&leader, "id = ?", identity.UserID).Error; err != nil ||
			leader.TeamID == nil || *leader.TeamID != team.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Outside your team scope",
			})
		}
	}

	rollup, err := buildTeamRollup(team.ID, parseWeeks(c), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dashboard data",
		})
	}

	return c.JSON(rollup)
}

// GetOrgDashboard is the manager-only cross-team view.
func GetOrgDashboard(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsManager() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only managers can read the org dashboard",
		})
	}

	weeks := parseWeeks(c)
	now := time.Now()

	var teams []models.Team
	if err := database.DB.Order("name").Find(&teams).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dashboard data",
		})
	}

	rollups := make([]analytics.TeamRollup, 0, len(teams))
	for _, team := range teams {
		rollup, err := buildTeamRollup(team.ID, weeks, now)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load dashboard data",
			})
		}
		rollups = append(rollups, rollup)
	}

	return c.JSON(analytics.ReduceOrg(rollups))
}

func buildTeamRollup(teamID uuid.UUID, weeks int, now time.Time) (analytics.TeamRollup, error) {
	var members []models.User
	if err := database.DB.Where("team_id = ?", teamID).Order("created_at").Find(&members).Error; err != nil {
		return analytics.TeamRollup{}, err
	}

	memberIDs := make([]uuid.UUID, len(members))
	inputs := make(map[uuid.UUID]analytics.MemberInput, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
		in, err := loadMemberInput(database.DB, m.ID, now, weeks)
		if err != nil {
			return analytics.TeamRollup{}, err
		}
		inputs[m.ID] = in
	}

	return analytics.ReduceTeam(teamID, memberIDs, inputs, now, weeks), nil
}
