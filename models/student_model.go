package models

import "time"

type Student struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	StudentUID    string `gorm:"size:64;not null;uniqueIndex" json:"student_uid"`
	FirstName     string `gorm:"size:100;not null" json:"first_name"`
	LastName      string `gorm:"size:100;not null" json:"last_name"`
	School        *string `gorm:"size:255" json:"school"`
	Birthdate     *string `gorm:"size:10" json:"birthdate"`
	ParentName    *string `gorm:"size:255" json:"parent_name"`
	ParentContact *string `gorm:"size:100" json:"parent_contact"`

	// Owned rows, removed together with the student.
	Enrollments []Enrollment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Attendance  []Attendance `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Payments    []Payment    `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
