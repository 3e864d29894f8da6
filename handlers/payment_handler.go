package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/database"
	"github.com/phoenixedu/phoenix_institute/services"
)

type PaymentRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	SubjectID uint    `json:"subject_id" validate:"required"`
	Month     int     `json:"month" validate:"required,min=1,max=12"`
	Year      int     `json:"year" validate:"required"`
	Amount    float64 `json:"amount"`
	Notes     *string `json:"notes"`
}

// RecordPayment upserts a tuition payment for one calendar period.
func RecordPayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Student ID, subject ID, month, and year are required"})
	}

	payment, err := services.UpsertPayment(database.DB, req.StudentID, req.SubjectID, req.Month, req.Year, req.Amount, req.Notes)
	if err != nil {
		log.Printf("🔥 Payment upsert failed for student %d: %v", req.StudentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}
	return c.JSON(fiber.Map{"success": true, "id": payment.ID})
}

// DeletePayment undoes a recorded payment. Deleting an unknown id still
// succeeds.
func DeletePayment(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment id"})
	}
	if err := services.DeletePayment(database.DB, id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete payment"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// StudentPayments lists a student's payments for one year, month by month.
func StudentPayments(c *fiber.Ctx) error {
	studentID, err := paramUint(c, "studentId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}
	year := queryIntOr(c, "year", time.Now().Year())

	rows, err := services.PaymentsForStudent(database.DB, studentID, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}
	return c.JSON(rows)
}

// PaymentReport returns one row per active enrollment for the requested
// period, unpaid rows included; the period defaults to the current month.
func PaymentReport(c *fiber.Ctx) error {
	now := time.Now()
	month := queryIntOr(c, "month", int(now.Month()))
	year := queryIntOr(c, "year", now.Year())

	rows, err := services.GetPaymentReport(database.DB, month, year, queryUint(c, "subject_id"), queryUint(c, "grade_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build payment report"})
	}
	return c.JSON(rows)
}

// MonthlyIncome returns the yearly income breakdown, defaulting to the
// current year.
func MonthlyIncome(c *fiber.Ctx) error {
	year := queryIntOr(c, "year", time.Now().Year())

	summary, err := services.GetMonthlyIncome(database.DB, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build income summary"})
	}
	return c.JSON(summary)
}
