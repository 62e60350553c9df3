package main

import (
	"log"

	"github.com/arnold/okrtrack-api/internal/config"
	"github.com/arnold/okrtrack-api/internal/database"
	"github.com/arnold/okrtrack-api/internal/handlers"
	"github.com/arnold/okrtrack-api/internal/routes"
	"github.com/arnold/okrtrack-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	handlers.SetDefaultWeeks(cfg.DashboardWeeks)

	snapshots, err := services.StartSnapshots(cfg.SnapshotSchedule)
	if err != nil {
		log.Fatalf("snapshot schedule: %v", err)
	}
	defer snapshots.Stop()

	app := fiber.New(fiber.Config{
		AppName: "okrtrack-api",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Setup(app)

	log.Fatal(app.Listen(":" + cfg.Port))
}
