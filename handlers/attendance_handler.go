package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/phoenixedu/phoenix_institute/database"
	"github.com/phoenixedu/phoenix_institute/services"
)

type ScanRequest struct {
	StudentUID string `json:"student_uid" validate:"required"`
	SubjectID  uint   `json:"subject_id" validate:"required"`
}

// ScanAttendance handles a credential scan. Domain-level refusals (not
// enrolled, already scanned) come back as 200s with success=false so the
// scanner screen can show them as messages; only transport problems are HTTP
// errors.
func ScanAttendance(c *fiber.Ctx) error {
	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Student UID and subject ID are required"})
	}

	now := time.Now()
	result, err := services.RecordScan(database.DB, req.StudentUID, req.SubjectID,
		now.Format("2006-01-02"), now.Format("03:04 PM"))
	if errors.Is(err, services.ErrStudentNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}
	if err != nil {
		log.Printf("🔥 Scan failed for uid %s: %v", req.StudentUID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record attendance"})
	}

	name := result.Student.FirstName + " " + result.Student.LastName
	switch {
	case result.NotEnrolled:
		return c.JSON(fiber.Map{
			"success":      false,
			"message":      fmt.Sprintf("%s is not registered for %s", name, result.SubjectName),
			"not_enrolled": true,
			"student":      result.Student,
		})
	case result.AlreadyScanned:
		return c.JSON(fiber.Map{
			"success":         false,
			"message":         fmt.Sprintf("%s already marked present today at %s", name, result.Attendance.ScanTime),
			"already_scanned": true,
			"student":         result.Student,
			"attendance":      result.Attendance,
		})
	default:
		return c.JSON(fiber.Map{
			"success":         true,
			"message":         fmt.Sprintf("%s marked present at %s", name, result.Attendance.ScanTime),
			"already_scanned": false,
			"student":         result.Student,
			"attendance":      result.Attendance,
		})
	}
}

// ListAttendance returns scan records filtered by any of subject_id, grade_id,
// date and student_id.
func ListAttendance(c *fiber.Ctx) error {
	rows, err := services.QueryAttendance(database.DB, services.AttendanceFilter{
		StudentID: queryUint(c, "student_id"),
		SubjectID: queryUint(c, "subject_id"),
		GradeID:   queryUint(c, "grade_id"),
		Date:      c.Query("date"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}
	return c.JSON(rows)
}

// TodayAttendance returns the current day's scans, latest first.
func TodayAttendance(c *fiber.Ctx) error {
	rows, err := services.TodayAttendance(database.DB, time.Now().Format("2006-01-02"), queryUint(c, "subject_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}
	return c.JSON(rows)
}
