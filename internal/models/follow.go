package models

type Follow struct {
	BaseModel

	FollowerID uint `gorm:"not null;uniqueIndex:idx_follow_pair"`
	FollowedID uint `gorm:"not null;uniqueIndex:idx_follow_pair;index"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Followed User `gorm:"foreignKey:FollowedID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
