package models

type EventParticipant struct {
	BaseModel

	EventID uint `gorm:"not null;uniqueIndex:idx_event_participant"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_event_participant;index"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type EventLike struct {
	BaseModel

	EventID uint `gorm:"not null;uniqueIndex:idx_event_like"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_event_like;index"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type EventTag struct {
	BaseModel

	EventID uint   `gorm:"not null;uniqueIndex:idx_event_tag"`
	Name    string `gorm:"size:32;not null;uniqueIndex:idx_event_tag;index"`

	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
