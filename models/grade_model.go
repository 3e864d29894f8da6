package models

import "time"

type Grade struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;unique" json:"name"`
	Level     int       `gorm:"not null" json:"level"`
	CreatedAt time.Time `json:"created_at"`
}
