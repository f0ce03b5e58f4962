package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func internalError(ctx *gin.Context, format string, args ...interface{}) {
	log.Printf(format, args...)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// loadEvent resolves :event_id, writing the error response itself when it fails.
func loadEvent(ctx *gin.Context) (models.Event, bool) {
	var event models.Event

	eventID, err := utils.GetEventID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return event, false
	}

	if err := db.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			internalError(ctx, "Failed to retrieve event %d: %v", eventID, err)
		}
		return event, false
	}

	return event, true
}

// loadUser resolves :user_id the same way.
func loadUser(ctx *gin.Context) (models.User, bool) {
	var user models.User

	userID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return user, false
	}

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			internalError(ctx, "Failed to retrieve user %d: %v", userID, err)
		}
		return user, false
	}

	return user, true
}

func currentUserOrAbort(ctx *gin.Context) (uint, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}

	return userID, true
}

func isParticipant(eventID, userID uint) (bool, error) {
	var count int64

	err := db.DB.Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error

	return count > 0, err
}

func countParticipants(eventID uint) (int64, error) {
	var count int64
	err := db.DB.Model(&models.EventParticipant{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func countLikes(eventID uint) (int64, error) {
	var count int64
	err := db.DB.Model(&models.EventLike{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

type eventCount struct {
	EventID uint
	Count   int64
}

func countByEvent(model interface{}, eventIDs []uint) (map[uint]int64, error) {
	var rows []eventCount

	err := db.DB.Model(model).
		Select("event_id, COUNT(*) AS count").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}

	return counts, nil
}

func viewerEventSet(model interface{}, eventIDs []uint, viewerID uint) (map[uint]bool, error) {
	set := make(map[uint]bool)

	if viewerID == 0 {
		return set, nil
	}

	var ids []uint

	err := db.DB.Model(model).
		Where("event_id IN ? AND user_id = ?", eventIDs, viewerID).
		Pluck("event_id", &ids).Error

	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		set[id] = true
	}

	return set, nil
}

// buildEventResponses fills counts and viewer flags for events whose Host and
// Tags are preloaded. viewerID 0 means anonymous.
func buildEventResponses(events []models.Event, viewerID uint) ([]types.EventResponse, error) {
	response := make([]types.EventResponse, 0, len(events))

	if len(events) == 0 {
		return response, nil
	}

	ids := make([]uint, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}

	participants, err := countByEvent(&models.EventParticipant{}, ids)
	if err != nil {
		return nil, err
	}

	likes, err := countByEvent(&models.EventLike{}, ids)
	if err != nil {
		return nil, err
	}

	joined, err := viewerEventSet(&models.EventParticipant{}, ids, viewerID)
	if err != nil {
		return nil, err
	}

	liked, err := viewerEventSet(&models.EventLike{}, ids, viewerID)
	if err != nil {
		return nil, err
	}

	for _, event := range events {
		item := types.NewEventResponse(event)
		item.ParticipantsCount = participants[event.ID]
		item.LikesCount = likes[event.ID]
		item.Joined = joined[event.ID]
		item.Liked = liked[event.ID]
		response = append(response, item)
	}

	return response, nil
}
