package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phoenixedu/phoenix_institute/models"
)

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrUnknownReference = errors.New("unknown subject or grade")
)

// ClassSelection is one (subject, grade) pair submitted for a student.
type ClassSelection struct {
	SubjectID uint `json:"subject_id" validate:"required"`
	GradeID   uint `json:"grade_id" validate:"required"`
}

// ReplaceEnrollments swaps the student's active class list for the submitted
// one inside a single transaction: every current enrollment is deactivated,
// then each submitted pair is either reactivated or inserted. Historical rows
// are never deleted, so attendance and payments recorded against a pair
// survive any amount of re-enrollment churn. An unknown subject or grade id
// rolls the whole replace back. Callers already inside a transaction get a
// savepoint.
func ReplaceEnrollments(db *gorm.DB, studentID uint, classes []ClassSelection) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return replaceEnrollments(tx, studentID, classes)
	})
}

func replaceEnrollments(tx *gorm.DB, studentID uint, classes []ClassSelection) error {
	if err := tx.Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Update("active", false).Error; err != nil {
		return err
	}

	classes = dedupeSelections(classes)
	if err := checkReferences(tx, classes); err != nil {
		return err
	}

	for _, sel := range classes {
		enrollment := models.Enrollment{
			StudentID: studentID,
			SubjectID: sel.SubjectID,
			GradeID:   sel.GradeID,
			Active:    true,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}, {Name: "grade_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"active": true}),
		}).Create(&enrollment).Error
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrUnknownReference
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// checkReferences rejects selections naming a subject or grade that does not
// exist, before the upserts run. The foreign keys are the backstop; checking
// here keeps the error precise regardless of driver.
func checkReferences(tx *gorm.DB, classes []ClassSelection) error {
	if len(classes) == 0 {
		return nil
	}
	subjectIDs := make(map[uint]bool)
	gradeIDs := make(map[uint]bool)
	for _, sel := range classes {
		subjectIDs[sel.SubjectID] = true
		gradeIDs[sel.GradeID] = true
	}

	var count int64
	if err := tx.Model(&models.Subject{}).Where("id IN ?", keys(subjectIDs)).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(subjectIDs)) {
		return ErrUnknownReference
	}
	if err := tx.Model(&models.Grade{}).Where("id IN ?", keys(gradeIDs)).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(gradeIDs)) {
		return ErrUnknownReference
	}
	return nil
}

func keys(set map[uint]bool) []uint {
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func dedupeSelections(classes []ClassSelection) []ClassSelection {
	seen := make(map[ClassSelection]bool, len(classes))
	out := make([]ClassSelection, 0, len(classes))
	for _, sel := range classes {
		if seen[sel] {
			continue
		}
		seen[sel] = true
		out = append(out, sel)
	}
	return out
}

// IsActivelyEnrolled reports whether the student has any active enrollment for
// the subject, regardless of grade.
func IsActivelyEnrolled(db *gorm.DB, studentID, subjectID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Enrollment{}).
		Where("student_id = ? AND subject_id = ? AND active = ?", studentID, subjectID, true).
		Count(&count).Error
	return count > 0, err
}

// ActiveEnrollments returns the student's active classes with subject and
// grade records preloaded.
func ActiveEnrollments(db *gorm.DB, studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := db.Preload("Subject").Preload("Grade").
		Where("student_id = ? AND active = ?", studentID, true).
		Order("id").
		Find(&enrollments).Error
	return enrollments, err
}
