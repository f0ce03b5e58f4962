package models

import "time"

// BaseModel is gorm.Model without soft deletes; rows here are removed for real
// so the cascades on related tables fire.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
