package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/handlers"
)

func CatalogRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/subjects", handlers.ListSubjects)
	api.Get("/grades", handlers.ListGrades)
}
