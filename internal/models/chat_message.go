package models

import "time"

type ChatMessage struct {
	BaseModel

	EventID  uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null;index"`
	Text     string `gorm:"type:text;not null"`

	// Relationships
	Event  Event         `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author User          `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Reads  []MessageRead `gorm:"foreignKey:MessageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// MessageRead is a read receipt.
type MessageRead struct {
	BaseModel

	MessageID uint      `gorm:"not null;uniqueIndex:idx_message_reader"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_message_reader;index"`
	ReadAt    time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
