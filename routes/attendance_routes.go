package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/handlers"
)

func AttendanceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/attendance/scan", handlers.ScanAttendance)
	api.Get("/attendance", handlers.ListAttendance)
	api.Get("/attendance/today", handlers.TodayAttendance)
}
