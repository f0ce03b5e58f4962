package models

import "gorm.io/datatypes"

type User struct {
	BaseModel

	Username     string `gorm:"size:50;uniqueIndex;not null"`
	Email        string `gorm:"size:190;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"size:120"`
	Bio          string `gorm:"type:text"`
	AvatarURL    string
	City         string `gorm:"size:120"`

	// Filled in once by the onboarding quiz
	OnboardingCompleted bool `gorm:"not null;default:false"`
	QuizAnswers         datatypes.JSON
	Preferences         datatypes.JSON

	// Relationships
	HostedEvents []Event            `gorm:"foreignKey:HostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Joined       []EventParticipant `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Likes        []EventLike        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Following    []Follow           `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Followers    []Follow           `gorm:"foreignKey:FollowedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Activities   []UserActivity     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
