package handlers

import (
	"errors"

	"github.com/arnold/okrtrack-api/internal/database"
	"github.com/arnold/okrtrack-api/internal/guard"
	"github.com/arnold/okrtrack-api/internal/middleware"
	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateVerificationRequest raises an evidence check against the caller's
// own goal.
func CreateVerificationRequest(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var req models.CreateVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "goalId is required",
		})
	}

	goal, check := guard.CanAccessGoal(database.DB, identity, req.GoalID)
	if !check.Allowed {
		return accessDenied(c, check)
	}
	if goal.UserID != identity.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the owner can request verification",
		})
	}

	request := models.VerificationRequest{
		GoalID:        goal.ID,
		UserID:        identity.UserID,
		ActionPlanID:  req.ActionPlanID,
		TemplateID:    req.TemplateID,
		Scope:         req.Scope,
		EvidenceLinks: req.EvidenceLinks,
		Status:        models.VerificationPending,
	}

	if err := database.DB.Create(&request).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create verification request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

func GetVerificationRequests(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	limit, offset := paging(c)

	query := database.DB.Model(&models.VerificationRequest{})
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

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.VerificationRequest
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch verification requests",
		})
	}

	return c.JSON(pageEnvelope(requests, limit, offset, len(requests)))
}

// SubmitVerificationReview upserts the single review a request may hold
// and flips the request to Reviewed.
func SubmitVerificationReview(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only leaders and managers can review verifications",
		})
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid verification request ID",
		})
	}

	var request models.VerificationRequest
	if err := database.DB.First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Verification request not found",
		})
	}

	// Leaders stay inside their team scope.
	if _, check := guard.CanAccessGoal(database.DB, identity, request.GoalID); !check.Allowed {
		return accessDenied(c, check)
	}

	var req models.SubmitVerificationReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "result must be Pass, NeedsWork or Fail",
		})
	}

	// At most one review per request: update in place when one exists.
	var existing models.VerificationReview
	err = database.DB.First(&existing, "request_id = ?", request.ID).Error
	switch {
	case err == nil:
		existing.ReviewerID = identity.UserID
		existing.Result = req.Result
		existing.Scores = req.Scores
		existing.LeaderFeedback = req.LeaderFeedback
		if err := database.DB.Save(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save verification review",
			})
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = models.VerificationReview{
			RequestID:      request.ID,
			ReviewerID:     identity.UserID,
			Result:         req.Result,
			Scores:         req.Scores,
			LeaderFeedback: req.LeaderFeedback,
		}
		if err := database.DB.Create(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to save verification review",
			})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load verification review",
		})
	}

	database.DB.Model(&request).Update("status", models.VerificationReviewed)

	return c.JSON(existing)
}

func CreateVerificationTemplate(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only leaders and managers can create templates",
		})
	}

	var template models.VerificationTemplate
	if err := c.BodyParser(&template); err != nil || template.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	template.ID = uuid.Nil

	if err := database.DB.Create(&template).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create template",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(template)
}

func GetVerificationTemplates(c *fiber.Ctx) error {
	limit, offset := paging(c)

	var templates []models.VerificationTemplate
	if err := database.DB.Order("name").Offset(offset).Limit(limit).Find(&templates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch templates",
		})
	}

	return c.JSON(pageEnvelope(templates, limit, offset, len(templates)))
}
