package models

type UserActivity struct {
	BaseModel

	UserID       uint   `gorm:"not null;index"`
	Kind         string `gorm:"size:40;not null;index"` // "event_created", "event_joined", "follow", ...
	EventID      *uint  `gorm:"index"`
	TargetUserID *uint
	Detail       string

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
