package routes

import (
	"github.com/arnold/okrtrack-api/internal/handlers"
	"github.com/arnold/okrtrack-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)

	teams := protected.Group("/teams")
	teams.Get("/", handlers.GetTeams)
	teams.Post("/", handlers.CreateTeam)
	teams.Post("/:id/members", handlers.AssignMember)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/:id", handlers.GetGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)

	// Review workflow
	goals.Post("/:id/request-review", handlers.RequestGoalReview)
	goals.Post("/:id/cancel-review", handlers.CancelGoalReview)
	goals.Put("/:id/review", handlers.ReviewGoal)

	goals.Get("/:goalId/action-plans", handlers.GetActionPlans)
	goals.Post("/:goalId/action-plans", handlers.CreateActionPlan)

	plans := protected.Group("/action-plans")
	plans.Put("/:id", handlers.UpdateActionPlan)
	plans.Delete("/:id", handlers.DeleteActionPlan)
	plans.Put("/:id/review", handlers.ReviewActionPlan)
	plans.Get("/:planId/weekly-reports", handlers.GetWeeklyReports)

	reports := protected.Group("/weekly-reports")
	reports.Post("/", handlers.CreateWeeklyReport)
	reports.Put("/:id", handlers.UpdateWeeklyReport)
	reports.Delete("/:id", handlers.DeleteWeeklyReport)

	verifications := protected.Group("/verifications")
	verifications.Get("/", handlers.GetVerificationRequests)
	verifications.Post("/", handlers.CreateVerificationRequest)
	verifications.Put("/:id/review", handlers.SubmitVerificationReview)
	verifications.Get("/templates", handlers.GetVerificationTemplates)
	verifications.Post("/templates", handlers.CreateVerificationTemplate)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/me", handlers.GetMyDashboard)
	dashboard.Get("/teams/:id", handlers.GetTeamDashboard)
	dashboard.Get("/org", handlers.GetOrgDashboard)
}
