package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/handlers"
)

func DashboardRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/dashboard/stats", handlers.DashboardStats)
}
