package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/phoenixedu/phoenix_institute/models"
)

// DashboardStats are the front-page counters. Paid/unpaid are counted per
// active enrollment unit, not per student: a student with two active classes
// and one missing payment contributes one unpaid unit.
type DashboardStats struct {
	TotalStudents    int64 `json:"totalStudents"`
	TodayAttendance  int64 `json:"todayAttendance"`
	TotalEnrollments int64 `json:"totalEnrollments"`
	PaidThisMonth    int64 `json:"paidThisMonth"`
	UnpaidThisMonth  int64 `json:"unpaidThisMonth"`
}

// GetDashboardStats computes the counters as of now.
func GetDashboardStats(db *gorm.DB, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	today := now.Format("2006-01-02")
	month := int(now.Month())
	year := now.Year()

	if err := db.Model(&models.Student{}).Count(&stats.TotalStudents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Attendance{}).Where("scan_date = ?", today).Count(&stats.TodayAttendance).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Enrollment{}).Where("active = ?", true).Count(&stats.TotalEnrollments).Error; err != nil {
		return nil, err
	}
	err := db.Table("enrollments AS e").
		Joins("JOIN payments p ON p.student_id = e.student_id AND p.subject_id = e.subject_id AND p.month = ? AND p.year = ?", month, year).
		Where("e.active = ?", true).
		Count(&stats.PaidThisMonth).Error
	if err != nil {
		return nil, err
	}

	stats.UnpaidThisMonth = stats.TotalEnrollments - stats.PaidThisMonth
	return stats, nil
}

// PaymentReportRow is one active enrollment unit left-joined against the
// payment for the requested period. Nil payment fields mean unpaid; the
// caller applies any paid/unpaid filtering over the full sequence.
type PaymentReportRow struct {
	StudentID   uint       `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	StudentUID  string     `json:"student_uid"`
	SubjectID   uint       `json:"subject_id"`
	GradeID     uint       `json:"grade_id"`
	SubjectName string     `json:"subject_name"`
	GradeName   string     `json:"grade_name"`
	PaymentID   *uint      `json:"payment_id"`
	Amount      *float64   `json:"amount"`
	PaidAt      *time.Time `json:"paid_at"`
	Notes       *string    `json:"notes"`
}

// GetPaymentReport lists every active enrollment matching the optional
// subject/grade filters for one calendar period.
func GetPaymentReport(db *gorm.DB, month, year int, subjectID, gradeID uint) ([]PaymentReportRow, error) {
	tx := db.Table("students AS s").
		Select(`s.id AS student_id, s.first_name, s.last_name, s.student_uid,
			e.subject_id, e.grade_id, sub.name AS subject_name, g.name AS grade_name,
			p.id AS payment_id, p.amount, p.paid_at, p.notes`).
		Joins("JOIN enrollments e ON e.student_id = s.id AND e.active = ?", true).
		Joins("JOIN subjects sub ON sub.id = e.subject_id").
		Joins("JOIN grades g ON g.id = e.grade_id").
		Joins("LEFT JOIN payments p ON p.student_id = s.id AND p.subject_id = e.subject_id AND p.month = ? AND p.year = ?", month, year)

	if subjectID != 0 {
		tx = tx.Where("e.subject_id = ?", subjectID)
	}
	if gradeID != 0 {
		tx = tx.Where("e.grade_id = ?", gradeID)
	}

	rows := []PaymentReportRow{}
	err := tx.Order("s.first_name, s.last_name").Scan(&rows).Error
	return rows, err
}

// MonthTotal is one month's income; months without payments are absent.
type MonthTotal struct {
	Month        int     `json:"month"`
	Total        float64 `json:"total"`
	PaymentCount int64   `json:"payment_count"`
}

// SubjectMonthTotal breaks a month's income down by subject.
type SubjectMonthTotal struct {
	Month        int     `json:"month"`
	SubjectID    uint    `json:"subject_id"`
	SubjectName  string  `json:"subject_name"`
	Total        float64 `json:"total"`
	PaymentCount int64   `json:"payment_count"`
}

// IncomeSummary is the yearly income report.
type IncomeSummary struct {
	Year             int                 `json:"year"`
	MonthlyTotals    []MonthTotal        `json:"monthlyTotals"`
	SubjectBreakdown []SubjectMonthTotal `json:"subjectBreakdown"`
	YearlyTotal      float64             `json:"yearlyTotal"`
	TotalPayments    int64               `json:"totalPayments"`
}

// GetMonthlyIncome aggregates one year of payments: totals per month, a
// per-subject breakdown, and the yearly sum.
func GetMonthlyIncome(db *gorm.DB, year int) (*IncomeSummary, error) {
	summary := &IncomeSummary{
		Year:             year,
		MonthlyTotals:    []MonthTotal{},
		SubjectBreakdown: []SubjectMonthTotal{},
	}

	err := db.Model(&models.Payment{}).
		Select("month, SUM(amount) AS total, COUNT(*) AS payment_count").
		Where("year = ?", year).
		Group("month").
		Order("month").
		Scan(&summary.MonthlyTotals).Error
	if err != nil {
		return nil, err
	}

	err = db.Table("payments AS p").
		Select("p.month, p.subject_id, sub.name AS subject_name, SUM(p.amount) AS total, COUNT(*) AS payment_count").
		Joins("JOIN subjects sub ON sub.id = p.subject_id").
		Where("p.year = ?", year).
		Group("p.month, p.subject_id, sub.name").
		Order("p.month, sub.name").
		Scan(&summary.SubjectBreakdown).Error
	if err != nil {
		return nil, err
	}

	for _, m := range summary.MonthlyTotals {
		summary.YearlyTotal += m.Total
		summary.TotalPayments += m.PaymentCount
	}
	return summary, nil
}
