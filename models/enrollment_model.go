package models

import "time"

// Enrollment ties a student to a subject within a grade cohort. Re-enrolling a
// student in the same class flips Active back on instead of inserting a second
// row, so attendance and payment history keeps pointing at the same pair.
type Enrollment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_enrollment_class" json:"student_id"`
	SubjectID uint `gorm:"not null;uniqueIndex:idx_enrollment_class" json:"subject_id"`
	GradeID   uint `gorm:"not null;uniqueIndex:idx_enrollment_class" json:"grade_id"`
	Active    bool `gorm:"not null;default:true" json:"active"`

	Subject Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Grade   Grade   `gorm:"foreignKey:GradeID" json:"grade,omitempty"`

	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
}
