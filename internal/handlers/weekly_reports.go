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

func CreateWeeklyReport(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req models.CreateWeeklyReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "actionPlanId is required",
		})
	}

	plan, goal, check := guard.CanAccessActionPlan(database.DB, identity, req.ActionPlanID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	if ruleErr := review.CanCreateWeeklyReport(goal, plan, identity.IsPrivileged()); ruleErr != nil {
		return ruleRefused(c, ruleErr)
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	report := models.WeeklyReport{
		ActionPlanID:       plan.ID,
		GoalID:             goal.ID,
		UserID:             goal.UserID,
		Date:               date,
		Accomplishments:    req.Accomplishments,
		BlockersChallenges: req.BlockersChallenges,
	}

	if err := database.DB.Create(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create weekly report",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetWeeklyReports lists reports for an action plan.
func GetWeeklyReports(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	planID, err := uuid.Parse(c.Params("planId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid action plan ID",
		})
	}

	plan, _, check := guard.CanAccessActionPlan(database.DB, identity, planID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	limit, offset := paging(c)
	var reports []models.WeeklyReport
	if err := database.DB.Where("action_plan_id = ?", plan.ID).Order("date DESC").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch weekly reports",
		})
	}

	return c.JSON(pageEnvelope(reports, limit, offset, len(reports)))
}

// UpdateWeeklyReport edits a report. lead_feedback is writable by leaders
// and managers only.
func UpdateWeeklyReport(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid weekly report ID",
		})
	}

	report, _, check := guard.CanAccessWeeklyReport(database.DB, identity, reportID)
	if !check.Allowed {
		return accessDenied(c, check)
	}

	var req models.UpdateWeeklyReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.LeadFeedback != nil && !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only leaders can write feedback",
		})
	}

	updates := map[string]interface{}{}
	if req.Accomplishments != nil {
		updates["accomplishments"] = *req.Accomplishments
	}
	if req.BlockersChallenges != nil {
		updates["blockers_challenges"] = *req.BlockersChallenges
	}
	if req.LeadFeedback != nil {
		updates["lead_feedback"] = *req.LeadFeedback
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&report).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update weekly report",
			})
		}
	}

	database.DB.First(&report, "id = ?", report.ID)
	return c.JSON(report)
}

func DeleteWeeklyReport(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid weekly report ID",
		})
	}

	report, goal, check := guard.CanAccessWeeklyReport(database.DB, identity, reportID)
	if !check.Allowed {
		return accessDenied(c, check)
	}
	if goal.UserID != identity.UserID && !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the owner can delete a weekly report",
		})
	}

	if err := database.DB.Delete(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete weekly report",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
