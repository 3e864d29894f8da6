package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/handlers"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/payments", handlers.RecordPayment)
	api.Delete("/payments/:id", handlers.DeletePayment)
	api.Get("/payments/student/:studentId", handlers.StudentPayments)
	api.Get("/payments/report", handlers.PaymentReport)
	api.Get("/income/monthly", handlers.MonthlyIncome)
}
