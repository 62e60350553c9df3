// Package guard answers "may this caller touch this row". Members must own
// the goal behind the resource, leaders are scoped to their own team, and
// managers pass unconditionally. Read-only: business rules come after.
package guard

import (
	"github.com/arnold/okrtrack-api/internal/middleware"
	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Check is the discriminated result of an access decision. A miss carries
// the HTTP status to answer with: 404 when the row truly does not exist,
// 403 when it exists but is out of the caller's scope. Members never learn
// whether rows outside their scope exist via a 403-on-missing.
type Check struct {
	Allowed bool
	Status  int
	Message string
}

func allow() Check {
	return Check{Allowed: true}
}

func notFound(msg string) Check {
	return Check{Status: fiber.StatusNotFound, Message: msg}
}

func forbidden(msg string) Check {
	return Check{Status: fiber.StatusForbidden, Message: msg}
}

// checkGoalScope applies the ownership/team rules against a loaded goal.
func checkGoalScope(db *gorm.DB, id middleware.Identity, g models.Goal) Check {
	if id.IsManager() {
		return allow()
	}
	if g.UserID == id.UserID {
		return allow()
	}
	if id.IsLeader() {
		return checkTeamScope(db, id, g.UserID)
	}
	return forbidden("You do not own this resource")
}

// checkTeamScope allows a leader onto a member's resource only when both
// sit on the same team right now (team membership is read live, never
// denormalized onto the goal).
func checkTeamScope(db *gorm.DB, id middleware.Identity, ownerID uuid.UUID) Check {
	var leader, owner models.User
	if err := db.First(&leader, "id = ?", id.UserID).Error; err != nil {
		return forbidden("Outside your team scope")
	}
	if err := db.First(&owner, "id = ?", ownerID).Error; err != nil {
		return forbidden("Outside your team scope")
	}
	if leader.TeamID == nil || owner.TeamID == nil || *leader.TeamID != *owner.TeamID {
		return forbidden("Outside your team scope")
	}
	return allow()
}

// CanAccessGoal loads the goal and decides access in one step.
func CanAccessGoal(db *gorm.DB, id middleware.Identity, goalID uuid.UUID) (models.Goal, Check) {
	var goal models.Goal
	if err := db.First(&goal, "id = ?", goalID).Error; err != nil {
		return models.Goal{}, notFound("Goal not found")
	}
	return goal, checkGoalScope(db, id, goal)
}

// CanAccessActionPlan walks plan -> goal and applies the goal's scope rules.
func CanAccessActionPlan(db *gorm.DB, id middleware.Identity, planID uuid.UUID) (models.ActionPlan, models.Goal, Check) {
	var plan models.ActionPlan
	if err := db.First(&plan, "id = ?", planID).Error; err != nil {
		return models.ActionPlan{}, models.Goal{}, notFound("Action plan not found")
	}
	var goal models.Goal
	if err := db.First(&goal, "id = ?", plan.GoalID).Error; err != nil {
		return models.ActionPlan{}, models.Goal{}, notFound("Action plan not found")
	}
	return plan, goal, checkGoalScope(db, id, goal)
}

// CanAccessWeeklyReport walks report -> plan -> goal.
func CanAccessWeeklyReport(db *gorm.DB, id middleware.Identity, reportID uuid.UUID) (models.WeeklyReport, models.Goal, Check) {
	var report models.WeeklyReport
	if err := db.First(&report, "id = ?", reportID).Error; err != nil {
		return models.WeeklyReport{}, models.Goal{}, notFound("Weekly report not found")
	}
	var goal models.Goal
	if err := db.First(&goal, "id = ?", report.GoalID).Error; err != nil {
		return models.WeeklyReport{}, models.Goal{}, notFound("Weekly report not found")
	}
	return report, goal, checkGoalScope(db, id, goal)
}
