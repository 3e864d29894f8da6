package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/phoenixedu/phoenix_institute/models"
)

// ScanResult is the discriminated outcome of one scan attempt. Exactly one of
// Scanned, AlreadyScanned or NotEnrolled describes the result; they are
// informational results for the caller, not errors.
type ScanResult struct {
	Scanned        bool
	AlreadyScanned bool
	NotEnrolled    bool
	Student        models.Student
	SubjectName    string
	Attendance     *models.Attendance
}

// RecordScan marks a student present for a subject on the given day. The
// student is resolved by the opaque uid carried in the scanned credential,
// never by the internal id. Date and time are the caller's wall clock; there
// is no retroactive backfill.
//
// Duplicate detection leans on the (student, subject, scan_date) unique index:
// the insert is attempted and a key violation is read back as "already
// scanned", so two interleaved scans can never both succeed.
func RecordScan(db *gorm.DB, studentUID string, subjectID uint, scanDate, scanTime string) (*ScanResult, error) {
	var student models.Student
	if err := db.Where("student_uid = ?", studentUID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	enrolled, err := IsActivelyEnrolled(db, student.ID, subjectID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		var subject models.Subject
		name := "this subject"
		if err := db.First(&subject, subjectID).Error; err == nil {
			name = subject.Name
		}
		return &ScanResult{NotEnrolled: true, Student: student, SubjectName: name}, nil
	}

	record := models.Attendance{
		StudentID: student.ID,
		SubjectID: subjectID,
		ScanDate:  scanDate,
		ScanTime:  scanTime,
	}
	err = db.Create(&record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing models.Attendance
		if err := db.Where("student_id = ? AND subject_id = ? AND scan_date = ?",
			student.ID, subjectID, scanDate).First(&existing).Error; err != nil {
			return nil, err
		}
		return &ScanResult{AlreadyScanned: true, Student: student, Attendance: &existing}, nil
	}
	if err != nil {
		return nil, err
	}

	return &ScanResult{Scanned: true, Student: student, Attendance: &record}, nil
}

// AttendanceFilter narrows an attendance query; zero values mean no
// restriction.
type AttendanceFilter struct {
	StudentID uint
	SubjectID uint
	GradeID   uint
	Date      string
}

// AttendanceRow is one ledger entry joined with the names the listing screens
// display.
type AttendanceRow struct {
	ID          uint   `json:"id"`
	StudentID   uint   `json:"student_id"`
	SubjectID   uint   `json:"subject_id"`
	ScanDate    string `json:"scan_date"`
	ScanTime    string `json:"scan_time"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	StudentUID  string `json:"student_uid"`
	SubjectName string `json:"subject_name"`
}

// QueryAttendance lists scan records newest first. Filtering by grade joins
// through the active enrollment set, since attendance rows themselves carry no
// grade.
func QueryAttendance(db *gorm.DB, filter AttendanceFilter) ([]AttendanceRow, error) {
	tx := db.Table("attendances AS a").
		Select("DISTINCT a.id, a.student_id, a.subject_id, a.scan_date, a.scan_time, s.first_name, s.last_name, s.student_uid, sub.name AS subject_name").
		Joins("JOIN students s ON s.id = a.student_id").
		Joins("JOIN subjects sub ON sub.id = a.subject_id")

	if filter.StudentID != 0 {
		tx = tx.Where("a.student_id = ?", filter.StudentID)
	}
	if filter.SubjectID != 0 {
		tx = tx.Where("a.subject_id = ?", filter.SubjectID)
	}
	if filter.Date != "" {
		tx = tx.Where("a.scan_date = ?", filter.Date)
	}
	if filter.GradeID != 0 {
		tx = tx.Joins("JOIN enrollments e ON e.student_id = a.student_id AND e.active = ?", true).
			Where("e.grade_id = ?", filter.GradeID)
	}

	rows := []AttendanceRow{}
	err := tx.Order("a.scan_date DESC, a.scan_time DESC").Scan(&rows).Error
	return rows, err
}

// TodayAttendance lists the given day's scans, latest first, optionally for a
// single subject.
func TodayAttendance(db *gorm.DB, date string, subjectID uint) ([]AttendanceRow, error) {
	tx := db.Table("attendances AS a").
		Select("a.id, a.student_id, a.subject_id, a.scan_date, a.scan_time, s.first_name, s.last_name, s.student_uid, sub.name AS subject_name").
		Joins("JOIN students s ON s.id = a.student_id").
		Joins("JOIN subjects sub ON sub.id = a.subject_id").
		Where("a.scan_date = ?", date)

	if subjectID != 0 {
		tx = tx.Where("a.subject_id = ?", subjectID)
	}

	rows := []AttendanceRow{}
	err := tx.Order("a.scan_time DESC").Scan(&rows).Error
	return rows, err
}
