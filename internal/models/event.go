package models

import "time"

type Event struct {
	BaseModel

	Title           string    `gorm:"size:200;not null"`
	Description     string    `gorm:"type:text"`
	Date            time.Time `gorm:"column:event_date;not null;index"`
	Location        string    `gorm:"size:255;index"`
	Latitude        *float64
	Longitude       *float64
	MaxParticipants int  `gorm:"not null;default:0"` // 0 means unlimited
	HostID          uint `gorm:"not null;index"`
	ReminderSentAt  *time.Time

	// Relationships
	Host         User               `gorm:"foreignKey:HostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Participants []EventParticipant `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Likes        []EventLike        `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tags         []EventTag         `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Comments     []EventComment     `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Messages     []ChatMessage      `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// IsFull reports whether count participants already fill the event.
func (e Event) IsFull(count int64) bool {
	return e.MaxParticipants > 0 && count >= int64(e.MaxParticipants)
}

// TagNames flattens the loaded tags.
func (e Event) TagNames() []string {
	names := make([]string, 0, len(e.Tags))
	for _, tag := range e.Tags {
		names = append(names, tag.Name)
	}
	return names
}
