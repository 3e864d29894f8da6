package models

import "time"

// Attendance is one scan per student per subject per day. The composite unique
// index is the authoritative duplicate guard; a second scan on the same day
// hits the constraint and is reported as "already scanned".
type Attendance struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StudentID uint   `gorm:"not null;uniqueIndex:idx_attendance_day" json:"student_id"`
	SubjectID uint   `gorm:"not null;uniqueIndex:idx_attendance_day" json:"subject_id"`
	ScanDate  string `gorm:"size:10;not null;uniqueIndex:idx_attendance_day" json:"scan_date"` // YYYY-MM-DD
	ScanTime  string `gorm:"size:10;not null" json:"scan_time"`

	Subject Subject `gorm:"foreignKey:SubjectID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
