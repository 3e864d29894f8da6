package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/database"
	"github.com/phoenixedu/phoenix_institute/services"
)

// DashboardStats returns the front-page counters.
func DashboardStats(c *fiber.Ctx) error {
	stats, err := services.GetDashboardStats(database.DB, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute dashboard stats"})
	}
	return c.JSON(stats)
}
