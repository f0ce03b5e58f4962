package handlers

import (
	"net/http"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

func JoinEvent(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	if event.Date.Before(time.Now()) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Event has already taken place"})
		return
	}

	joined, err := isParticipant(event.ID, userID)
	if err != nil {
		internalError(ctx, "Failed to check participation: %v", err)
		return
	}

	if joined {
		ctx.JSON(http.StatusConflict, gin.H{"error": "You have already joined this event"})
		return
	}

	count, err := countParticipants(event.ID)
	if err != nil {
		internalError(ctx, "Failed to count participants: %v", err)
		return
	}

	if event.IsFull(count) {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Event is full"})
		return
	}

	if err := db.DB.Create(&models.EventParticipant{EventID: event.ID, UserID: userID}).Error; err != nil {
		internalError(ctx, "Failed to join event %d: %v", event.ID, err)
		return
	}

	services.RecordActivity(db.DB, services.ActivityEntry{
		UserID:  userID,
		Kind:    types.ActivityEventJoined,
		EventID: event.ID,
		Detail:  event.Title,
	})

	ctx.JSON(http.StatusOK, gin.H{"joined": true, "participants_count": count + 1})
}

func LeaveEvent(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	if event.HostID == userID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "The host cannot leave their own event"})
		return
	}

	result := db.DB.Where("event_id = ? AND user_id = ?", event.ID, userID).Delete(&models.EventParticipant{})

	if result.Error != nil {
		internalError(ctx, "Failed to leave event %d: %v", event.ID, result.Error)
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "You are not a participant of this event"})
		return
	}

	chatHub.RemoveMember(event.ID, userID)

	services.RecordActivity(db.DB, services.ActivityEntry{
		UserID:  userID,
		Kind:    types.ActivityEventLeft,
		EventID: event.ID,
		Detail:  event.Title,
	})

	count, err := countParticipants(event.ID)
	if err != nil {
		internalError(ctx, "Failed to count participants: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"joined": false, "participants_count": count})
}

func ListParticipants(ctx *gin.Context) {
	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	var participants []models.EventParticipant

	err := db.DB.Preload("User").
		Where("event_id = ?", event.ID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&participants).Error

	if err != nil {
		internalError(ctx, "Failed to list participants for event %d: %v", event.ID, err)
		return
	}

	response := make([]types.UserSummary, 0, len(participants))
	for _, participant := range participants {
		response = append(response, types.NewUserSummary(participant.User))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"participants":     response,
		"max_participants": event.MaxParticipants,
	})
}

func LikeEvent(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	like := models.EventLike{EventID: event.ID, UserID: userID}

	result := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)

	if result.Error != nil {
		internalError(ctx, "Failed to like event %d: %v", event.ID, result.Error)
		return
	}

	if result.RowsAffected > 0 {
		services.RecordActivity(db.DB, services.ActivityEntry{
			UserID:  userID,
			Kind:    types.ActivityEventLiked,
			EventID: event.ID,
			Detail:  event.Title,
		})
	}

	count, err := countLikes(event.ID)
	if err != nil {
		internalError(ctx, "Failed to count likes: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"liked": true, "likes_count": count})
}

func UnlikeEvent(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	if err := db.DB.Where("event_id = ? AND user_id = ?", event.ID, userID).Delete(&models.EventLike{}).Error; err != nil {
		internalError(ctx, "Failed to unlike event %d: %v", event.ID, err)
		return
	}

	count, err := countLikes(event.ID)
	if err != nil {
		internalError(ctx, "Failed to count likes: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"liked": false, "likes_count": count})
}
