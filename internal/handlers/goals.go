package handlers

import (
	"time"

	"github.com/arnold/okrtrack-api/internal/database"
	"github.com/arnold/okrtrack-api/internal/guard"
	"github.com/arnold/okrtrack-api/internal/middleware"
	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/arnold/okrtrack-api/internal/review"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateGoal(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "year and title are required",
		})
	}

	goal := models.Goal{
		UserID:      identity.UserID,
		Year:        *req.Year,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.GoalStatusNotStarted,
		StartDate:   req.StartDate,
		TimeBound:   req.TimeBound,
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create goal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

// GetGoals lists goals the caller is allowed to see: members their own,
// leaders their team's, managers everything. Optional year filter.
func GetGoals(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	limit, offset := paging(c)

	query := database.DB.Model(&models.Goal{})
	switch {
	case identity.IsManager():
		// unrestricted
	case identity.IsLeader():
		var leader models.User
		if err := database.DB.First(&leader, "id = ?", identity.UserID).Error; err != nil || leader.TeamID == nil {
			query = query.Where("user_id = ?", identity.UserID)
		} else {
			query = query.Where(
				"user_id IN (?)",
				database.DB.Model(&models.User{}).Select("id").Where("team_id = ?", *leader.TeamID),
			)
		}
	default:
		query = query.Where("user_id = ?", identity.UserID)
	}

	if year := c.QueryInt("year"); year != 0 {
		query = query.Where("year = ?", year)
	}

	var goals []models.Goal
	if err := query.Preload("ActionPlans").Order("created_at DESC").Offset(offset).Limit(limit).Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch goals",
		})
	}

	return c.JSON(pageEnvelope(goals, limit, offset, len(goals)))
}

func GetGoal(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, goalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	database.DB.Preload("ActionPlans").First(&goal, "id = ?", goal.ID)
	return c.JSON(goal)
}

func UpdateGoal(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, goalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates, ruleErr := review.MemberGoalUpdate(goal, req)
	if ruleErr != nil {
		return ruleRefused(c, ruleErr)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&goal).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update goal",
			})
		}
	}

	database.DB.First(&goal, "id = ?", goal.ID)
	return c.JSON(goal)
}

func DeleteGoal(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, goalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}
	if goal.UserID != identity.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the owner can delete a goal",
		})
	}

	if ruleErr := review.CanDeleteGoal(goal); ruleErr != nil {
		return ruleRefused(c, ruleErr)
	}

	if err := database.DB.Delete(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete goal",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RequestGoalReview locks the goal and marks it pending leader review.
func RequestGoalReview(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, goalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}
	if goal.UserID != identity.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the owner can request review",
		})
	}

	var planCount int64
	database.DB.Model(&models.ActionPlan{}).Where("goal_id = ?", goal.ID).Count(&planCount)

	updates, ruleErr := review.RequestGoalReview(goal, int(planCount))
	if ruleErr != nil {
		return ruleRefused(c, ruleErr)
	}

	if err := database.DB.Model(&goal).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to request review",
		})
	}

	database.DB.First(&goal, "id = ?", goal.ID)
	return c.JSON(goal)
}

func CancelGoalReview(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, goalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}
	if goal.UserID != identity.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the owner can cancel review",
		})
	}

	updates, ruleErr := review.CancelGoalReview(goal)
	if ruleErr != nil {
		return ruleRefused(c, ruleErr)
	}

	if err := database.DB.Model(&goal).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel review",
		})
	}

	database.DB.First(&goal, "id = ?", goal.ID)
	return c.JSON(goal)
}

// ReviewGoal records a leader decision. Audit columns are written with a
// one-shot fallback so older schemas never fail the decision itself.
func ReviewGoal(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only leaders and managers can review goals",
		})
	}

	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, goalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	var req models.ReviewDecisionRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status is required",
		})
	}

	core, audit := review.DecideGoal(goal, req.Status, req.Comment, identity.UserID, time.Now())
	if err := database.UpdateWithAuditFallback(database.DB, &goal, core, audit); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record review decision",
		})
	}

	database.DB.First(&goal, "id = ?", goal.ID)
	return c.JSON(goal)
}
