package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phoenixedu/phoenix_institute/database"
	"github.com/phoenixedu/phoenix_institute/models"
	"github.com/phoenixedu/phoenix_institute/services"
	"github.com/phoenixedu/phoenix_institute/utils"
)

type StudentRequest struct {
	FirstName     string                    `json:"first_name" validate:"required"`
	LastName      string                    `json:"last_name" validate:"required"`
	School        *string                   `json:"school"`
	Birthdate     *string                   `json:"birthdate"`
	ParentName    *string                   `json:"parent_name"`
	ParentContact *string                   `json:"parent_contact"`
	Classes       []services.ClassSelection `json:"classes"`
}

// StudentListItem is a student plus the comma-joined names of their active
// classes, the shape the roster table renders.
type StudentListItem struct {
	models.Student
	Subjects string `json:"subjects"`
	Grades   string `json:"grades"`
}

// ListStudents returns the roster, optionally narrowed to one subject or
// grade (by active enrollment) or a name/school search.
func ListStudents(c *fiber.Ctx) error {
	subjectID := queryUint(c, "subject_id")
	gradeID := queryUint(c, "grade_id")
	search := strings.TrimSpace(c.Query("search"))

	tx := database.DB.Model(&models.Student{}).Distinct("students.*")
	if subjectID != 0 || gradeID != 0 {
		tx = tx.Joins("JOIN enrollments e ON e.student_id = students.id AND e.active = ?", true)
		if subjectID != 0 {
			tx = tx.Where("e.subject_id = ?", subjectID)
		}
		if gradeID != 0 {
			tx = tx.Where("e.grade_id = ?", gradeID)
		}
	}
	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("students.first_name LIKE ? OR students.last_name LIKE ? OR students.school LIKE ?", like, like, like)
	}

	var students []models.Student
	if err := tx.Order("students.first_name, students.last_name").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}

	items, err := attachClassNames(students)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(items)
}

func attachClassNames(students []models.Student) ([]StudentListItem, error) {
	items := make([]StudentListItem, 0, len(students))
	if len(students) == 0 {
		return items, nil
	}

	ids := make([]uint, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}

	var enrollments []models.Enrollment
	err := database.DB.Preload("Subject").Preload("Grade").
		Where("student_id IN ? AND active = ?", ids, true).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	subjectsBy := make(map[uint][]string)
	gradesBy := make(map[uint][]string)
	for _, e := range enrollments {
		subjectsBy[e.StudentID] = appendUnique(subjectsBy[e.StudentID], e.Subject.Name)
		gradesBy[e.StudentID] = appendUnique(gradesBy[e.StudentID], e.Grade.Name)
	}

	for _, s := range students {
		items = append(items, StudentListItem{
			Student:  s,
			Subjects: strings.Join(subjectsBy[s.ID], ","),
			Grades:   strings.Join(gradesBy[s.ID], ","),
		})
	}
	return items, nil
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}

// GetStudent returns one student with their active classes.
func GetStudent(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch student"})
	}

	classes, err := services.ActiveEnrollments(database.DB, student.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch student"})
	}
	return c.JSON(fiber.Map{"student": student, "classes": classes})
}

// CreateStudent registers a student, minting the opaque uid their scannable
// credential will carry, and enrolls them into any submitted classes in the
// same transaction.
func CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "First name and last name are required"})
	}

	student := models.Student{
		StudentUID:    uuid.NewString(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		School:        req.School,
		Birthdate:     req.Birthdate,
		ParentName:    req.ParentName,
		ParentContact: req.ParentContact,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		if len(req.Classes) > 0 {
			return services.ReplaceEnrollments(tx, student.ID, req.Classes)
		}
		return nil
	})
	if errors.Is(err, services.ErrUnknownReference) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown subject or grade"})
	}
	if err != nil {
		log.Printf("🔥 Failed to create student: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create student"})
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

// UpdateStudent rewrites the student's identity fields and, when a class list
// is submitted, replaces their active enrollment set atomically.
func UpdateStudent(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "First name and last name are required"})
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch student"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"first_name":     req.FirstName,
			"last_name":      req.LastName,
			"school":         req.School,
			"birthdate":      req.Birthdate,
			"parent_name":    req.ParentName,
			"parent_contact": req.ParentContact,
		}
		if err := tx.Model(&student).Updates(updates).Error; err != nil {
			return err
		}
		if req.Classes != nil {
			return services.ReplaceEnrollments(tx, student.ID, req.Classes)
		}
		return nil
	})
	if errors.Is(err, services.ErrUnknownReference) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown subject or grade"})
	}
	if err != nil {
		log.Printf("🔥 Failed to update student %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
	}
	return c.JSON(student)
}

// DeleteStudent removes a student; enrollments, attendance and payments go
// with them.
func DeleteStudent(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}
	if err := database.DB.Delete(&models.Student{}, id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete student"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// StudentQR returns the student's credential as an inline data URL.
func StudentQR(c *fiber.Ctx) error {
	student, fail := findStudentForQR(c)
	if student == nil {
		return fail
	}
	dataURL, err := utils.StudentQRDataURL(*student)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate QR code"})
	}
	return c.JSON(fiber.Map{"qr": dataURL, "student": student})
}

// StudentQRImage returns the credential as a downloadable PNG.
func StudentQRImage(c *fiber.Ctx) error {
	student, fail := findStudentForQR(c)
	if student == nil {
		return fail
	}
	png, err := utils.StudentQRPNG(*student)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate QR code"})
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="qr-%s-%s.png"`, student.FirstName, student.LastName))
	return c.Send(png)
}

func findStudentForQR(c *fiber.Ctx) (*models.Student, error) {
	id, err := paramUint(c, "id")
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}
	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch student"})
	}
	return &student, nil
}
