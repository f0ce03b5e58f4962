package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

func ListReviews(ctx *gin.Context) {
	target, ok := loadUser(ctx)
	if !ok {
		return
	}

	var reviews []models.UserReview

	err := db.DB.Preload("Author").
		Where("target_id = ?", target.ID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error

	if err != nil {
		internalError(ctx, "Failed to list reviews for user %d: %v", target.ID, err)
		return
	}

	agg, err := reviewAggregate(target.ID)
	if err != nil {
		internalError(ctx, "Failed to aggregate reviews for user %d: %v", target.ID, err)
		return
	}

	response := make([]types.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		response = append(response, types.NewReviewResponse(review))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"reviews":        response,
		"average_rating": agg.Average,
		"count":          agg.Count,
	})
}

// saveReview upserts the author's review of target. created reports whether
// no review existed before the call.
func saveReview(authorID, targetID uint, rating int, comment string) (models.UserReview, bool, error) {
	var existing int64

	err := db.DB.Model(&models.UserReview{}).
		Where("author_id = ? AND target_id = ?", authorID, targetID).
		Count(&existing).Error

	if err != nil {
		return models.UserReview{}, false, fmt.Errorf("failed to look up review: %w", err)
	}

	review := models.UserReview{
		AuthorID: authorID,
		TargetID: targetID,
		Rating:   rating,
		Comment:  comment,
	}

	err = db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "author_id"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(&review).Error

	if err != nil {
		return models.UserReview{}, false, fmt.Errorf("failed to upsert review: %w", err)
	}

	var saved models.UserReview

	err = db.DB.Preload("Author").
		Where("author_id = ? AND target_id = ?", authorID, targetID).
		First(&saved).Error

	if err != nil {
		return models.UserReview{}, false, fmt.Errorf("failed to reload review: %w", err)
	}

	return saved, existing == 0, nil
}

// CreateReview stores the caller's review of the user, replacing an earlier one.
func CreateReview(ctx *gin.Context) {
	authorID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	target, ok := loadUser(ctx)
	if !ok {
		return
	}

	if target.ID == authorID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "You cannot review yourself"})
		return
	}

	var req ReviewRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	review, created, err := saveReview(authorID, target.ID, req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		internalError(ctx, "Failed to save review of user %d: %v", target.ID, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	services.RecordActivity(db.DB, services.ActivityEntry{
		UserID:       authorID,
		Kind:         types.ActivityReviewed,
		TargetUserID: target.ID,
		Detail:       strconv.Itoa(req.Rating),
	})

	ctx.JSON(status, gin.H{"review": types.NewReviewResponse(review)})
}

func DeleteReview(ctx *gin.Context) {
	authorID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	target, ok := loadUser(ctx)
	if !ok {
		return
	}

	result := db.DB.Where("author_id = ? AND target_id = ?", authorID, target.ID).Delete(&models.UserReview{})

	if result.Error != nil {
		internalError(ctx, "Failed to delete review: %v", result.Error)
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
