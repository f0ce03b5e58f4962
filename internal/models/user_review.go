package models

type UserReview struct {
	BaseModel

	AuthorID uint   `gorm:"not null;uniqueIndex:idx_review_pair"`
	TargetID uint   `gorm:"not null;uniqueIndex:idx_review_pair;index"`
	Rating   int    `gorm:"not null"`
	Comment  string `gorm:"type:text"`

	// Relationships
	Author User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Target User `gorm:"foreignKey:TargetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
