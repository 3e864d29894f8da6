package models

import "time"

// Payment is one tuition payment per student per subject per calendar month.
// Submitting the same period again overwrites amount/notes/paid_at in place.
type Payment struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	StudentID uint    `gorm:"not null;uniqueIndex:idx_payment_period" json:"student_id"`
	SubjectID uint    `gorm:"not null;uniqueIndex:idx_payment_period" json:"subject_id"`
	Month     int     `gorm:"not null;uniqueIndex:idx_payment_period" json:"month"`
	Year      int     `gorm:"not null;uniqueIndex:idx_payment_period" json:"year"`
	Amount    float64 `gorm:"not null;default:0" json:"amount"`
	Notes     *string `gorm:"type:text" json:"notes"`

	Subject Subject `gorm:"foreignKey:SubjectID" json:"-"`

	PaidAt time.Time `gorm:"autoCreateTime" json:"paid_at"`
}
