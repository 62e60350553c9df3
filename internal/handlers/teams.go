package handlers

import (
	"github.com/arnold/okrtrack-api/internal/database"
	"github.com/arnold/okrtrack-api/internal/middleware"
	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateTeam(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only leaders and managers can create teams",
		})
	}

	var req models.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Team name is required",
		})
	}

	team := models.Team{Name: req.Name}
	if err := database.DB.Create(&team).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Team already exists",
		})
	}

	// A leader creating a team joins it.
	if identity.IsLeader() && !identity.IsManager() {
		database.DB.Model(&models.User{}).Where("id = ?", identity.UserID).Update("team_id", team.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

func GetTeams(c *fiber.Ctx) error {
	limit, offset := paging(c)

	var teams []models.Team
	if err := database.DB.Preload("Members").Order("name").Offset(offset).Limit(limit).Find(&teams).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teams",
		})
	}

	return c.JSON(pageEnvelope(teams, limit, offset, len(teams)))
}

// AssignMember puts a user on a team. Leaders may only populate their own
// team; managers may populate any.
func AssignMember(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsPrivileged() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only leaders and managers can assign members",
		})
	}

	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid team ID",
		})
	}

	var req models.AssignMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
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
			leader.TeamID == nil || *leader.TeamID != teamID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Leaders can only assign members to their own team",
			})
		}
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := database.DB.Model(&user).Update("team_id", teamID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign member",
		})
	}

	return c.JSON(user)
}
