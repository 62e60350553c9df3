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

func CreateActionPlan(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, goalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}
	if goal.IsLocked {
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"error": "Goal is locked for review",
		})
	}

	var req models.CreateActionPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	plan := models.ActionPlan{
		GoalID:      goal.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.PlanStatusNotStarted,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	if err := database.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create action plan",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

func GetActionPlans(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, goalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	limit, offset := paging(c)
	var plans []models.ActionPlan
	if err := database.DB.Where("goal_id = ?", goal.ID).Order("created_at").Offset(offset).Limit(limit).Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch action plans",
		})
	}

	return c.JSON(pageEnvelope(plans, limit, offset, len(plans)))
}

// UpdateActionPlan applies a member edit. Deadline changes go through the
// proposal protocol inside the state machine, never into end_date directly.
func UpdateActionPlan(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action plan ID",
		})
	}

	plan, _, check := guard.CanAccessActionPlan(database.DB, identity, planID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	var req models.UpdateActionPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates, ruleErr := review.MemberPlanUpdate(plan, req)
	if ruleErr != nil {
		return ruleRefused(c, ruleErr)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&plan).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update action plan",
			})
		}
	}

	database.DB.First(&plan, "id = ?", plan.ID)
	return c.JSON(plan)
}

func DeleteActionPlan(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action plan ID",
		})
	}

	plan, goal, check := guard.CanAccessActionPlan(database.DB, identity, planID)
	if !check.Allowed {
		return accessDenied(c, check)
	}
	if goal.UserID != identity.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the owner can delete an action plan",
		})
	}

	if ruleErr := review.CanDeletePlan(plan); ruleErr != nil {
		return ruleRefused(c, ruleErr)
	}

	if err := database.DB.Delete(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete action plan",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ReviewActionPlan records a leader decision; approval commits an
// outstanding deadline proposal.
func ReviewActionPlan(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only leaders and managers can review action plans",
		})
	}

	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action plan ID",
		})
	}

	plan, _, check := guard.CanAccessActionPlan(database.DB, identity, planID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	var req models.ReviewDecisionRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status is required",
		})
	}

	core, audit := review.DecidePlan(plan, req.Status, req.Comment, identity.UserID, time.Now())
	if err := database.UpdateWithAuditFallback(database.DB, &plan, core, audit); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record review decision",
		})
	}

	database.DB.First(&plan, "id = ?", plan.ID)
	return c.JSON(plan)
}
