package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/handlers"
)

func StudentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/students", handlers.ListStudents)
	api.Post("/students", handlers.CreateStudent)
	api.Get("/students/:id", handlers.GetStudent)
	api.Put("/students/:id", handlers.UpdateStudent)
	api.Delete("/students/:id", handlers.DeleteStudent)

	api.Get("/students/:id/qr", handlers.StudentQR)
	api.Get("/students/:id/qr/image", handlers.StudentQRImage)
}
