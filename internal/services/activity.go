package services

import (
	"log"

	"github.com/JakubEth/gramytu/internal/models"
	"gorm.io/gorm"
)

type ActivityEntry struct {
	UserID       uint
	Kind         string
	EventID      uint
	TargetUserID uint
	Detail       string
}

// RecordActivity appends to the user's activity log. Failures are logged and
// never surface to the caller's request.
func RecordActivity(conn *gorm.DB, entry ActivityEntry) {
	activity := models.UserActivity{
		UserID: entry.UserID,
		Kind:   entry.Kind,
		Detail: entry.Detail,
	}

	if entry.EventID != 0 {
		eventID := entry.EventID
		activity.EventID = &eventID
	}

	if entry.TargetUserID != 0 {
		targetUserID := entry.TargetUserID
		activity.TargetUserID = &targetUserID
	}

	if err := conn.Create(&activity).Error; err != nil {
		log.Printf("activity: failed to record %s for user %d: %v", entry.Kind, entry.UserID, err)
	}
}
