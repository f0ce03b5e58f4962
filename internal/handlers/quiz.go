package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/quiz"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

const (
	defaultRecommendations = 10
	maxRecommendations     = 50
)

func GetQuiz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"questions": quiz.Questions()})
}

func SubmitQuiz(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	var submission quiz.Submission

	if err := ctx.ShouldBindJSON(&submission); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	prefs, err := quiz.Evaluate(submission)

	if err != nil {
		if errors.Is(err, quiz.ErrInvalidAnswers) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		internalError(ctx, "Failed to evaluate quiz for user %d: %v", userID, err)
		return
	}

	answersJSON, err := json.Marshal(submission.Answers)
	if err != nil {
		internalError(ctx, "Failed to encode quiz answers: %v", err)
		return
	}

	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		internalError(ctx, "Failed to encode preferences: %v", err)
		return
	}

	// Guarded update so two concurrent submissions cannot both succeed.
	result := db.DB.Model(&models.User{}).
		Where("id = ? AND onboarding_completed = ?", userID, false).
		Updates(map[string]interface{}{
			"onboarding_completed": true,
			"quiz_answers":         datatypes.JSON(answersJSON),
			"preferences":          datatypes.JSON(prefsJSON),
		})

	if result.Error != nil {
		internalError(ctx, "Failed to store quiz for user %d: %v", userID, result.Error)
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Onboarding quiz already completed"})
		return
	}

	services.RecordActivity(db.DB, services.ActivityEntry{
		UserID: userID,
		Kind:   types.ActivityOnboardingCompleted,
		Detail: prefs.PersonalityType,
	})

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		internalError(ctx, "Failed to reload user %d: %v", userID, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":        types.NewUserResponse(user, true),
		"preferences": prefs,
	})
}

// RecommendedEvents ranks upcoming events the caller does not host by how
// many of their tags are favourite genres, then by date.
func RecommendedEvents(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	limit := defaultRecommendations
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxRecommendations {
		limit = maxRecommendations
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		internalError(ctx, "Failed to fetch user %d: %v", userID, err)
		return
	}

	var genres []string
	if user.OnboardingCompleted && len(user.Preferences) > 0 {
		var prefs types.Preferences
		if err := json.Unmarshal(user.Preferences, &prefs); err != nil {
			log.Printf("Failed to decode preferences for user %d: %v", userID, err)
		}
		genres = prefs.FavoriteGenres
	}

	query := db.DB.Model(&models.Event{}).
		Where("events.event_date >= ?", time.Now().UTC()).
		Where("events.host_id <> ?", userID)

	if len(genres) > 0 {
		query = query.
			Joins("LEFT JOIN event_tags ON event_tags.event_id = events.id AND event_tags.name IN ?", genres).
			Group("events.id, events.event_date").
			Order("COUNT(event_tags.id) DESC")
	}

	var ids []uint

	err := query.
		Order("events.event_date ASC").
		Order("events.id ASC").
		Limit(limit).
		Pluck("events.id", &ids).Error

	if err != nil {
		internalError(ctx, "Failed to rank events: %v", err)
		return
	}

	var loaded []models.Event
	if len(ids) > 0 {
		if err := db.DB.Preload("Host").Preload("Tags").Where("id IN ?", ids).Find(&loaded).Error; err != nil {
			internalError(ctx, "Failed to load recommended events: %v", err)
			return
		}
	}

	byID := make(map[uint]models.Event, len(loaded))
	for _, event := range loaded {
		byID[event.ID] = event
	}

	events := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		if event, ok := byID[id]; ok {
			events = append(events, event)
		}
	}

	response, err := buildEventResponses(events, userID)
	if err != nil {
		internalError(ctx, "Failed to build event responses: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"events": response})
}
