package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phoenixedu/phoenix_institute/models"
)

// UpsertPayment records a tuition payment for one (student, subject, month,
// year) period. A second submission for the same period overwrites amount,
// notes and paid_at in the same row; the period unique index keyed upsert is a
// single atomic statement. Enrollment is deliberately not checked here:
// payments for historical periods stay recordable after disenrollment.
func UpsertPayment(db *gorm.DB, studentID, subjectID uint, month, year int, amount float64, notes *string) (*models.Payment, error) {
	payment := models.Payment{
		StudentID: studentID,
		SubjectID: subjectID,
		Month:     month,
		Year:      year,
		Amount:    amount,
		Notes:     notes,
		PaidAt:    time.Now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"}, {Name: "subject_id"}, {Name: "month"}, {Name: "year"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "notes", "paid_at"}),
	}).Create(&payment).Error
	if err != nil {
		return nil, err
	}

	// On the conflict path the submitted struct's ID is not reliable across
	// drivers; read the row back so callers always get the persisted id.
	var saved models.Payment
	err = db.Where("student_id = ? AND subject_id = ? AND month = ? AND year = ?",
		studentID, subjectID, month, year).First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeletePayment removes a payment outright, erasing the paid/unpaid
// distinction for its period. Unknown ids are a no-op.
func DeletePayment(db *gorm.DB, id uint) error {
	return db.Delete(&models.Payment{}, id).Error
}

// PaymentRow is a payment joined with its subject name for student statements.
type PaymentRow struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	SubjectID   uint      `json:"subject_id"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	Amount      float64   `json:"amount"`
	Notes       *string   `json:"notes"`
	PaidAt      time.Time `json:"paid_at"`
	SubjectName string    `json:"subject_name"`
}

// PaymentsForStudent lists one year of a student's payments in month order.
func PaymentsForStudent(db *gorm.DB, studentID uint, year int) ([]PaymentRow, error) {
	rows := []PaymentRow{}
	err := db.Table("payments AS p").
		Select("p.id, p.student_id, p.subject_id, p.month, p.year, p.amount, p.notes, p.paid_at, sub.name AS subject_name").
		Joins("JOIN subjects sub ON sub.id = p.subject_id").
		Where("p.student_id = ? AND p.year = ?", studentID, year).
		Order("p.month").
		Scan(&rows).Error
	return rows, err
}
