package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/database"
	"github.com/phoenixedu/phoenix_institute/models"
)

// Subjects and grades are shared reference data. They are read straight from
// the store on every request rather than cached in process.

func ListSubjects(c *fiber.Ctx) error {
	var subjects []models.Subject
	if err := database.DB.Order("name").Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch subjects"})
	}
	return c.JSON(subjects)
}

func ListGrades(c *fiber.Ctx) error {
	var grades []models.Grade
	if err := database.DB.Order("level").Find(&grades).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch grades"})
	}
	return c.JSON(grades)
}
