package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

func ListComments(ctx *gin.Context) {
	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	var comments []models.EventComment

	err := db.DB.Preload("Author").
		Where("event_id = ?", event.ID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error

	if err != nil {
		internalError(ctx, "Failed to list comments for event %d: %v", event.ID, err)
		return
	}

	response := make([]types.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		response = append(response, types.NewCommentResponse(comment))
	}

	ctx.JSON(http.StatusOK, gin.H{"comments": response})
}

func CreateComment(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	var req CommentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required"})
		return
	}

	comment := models.EventComment{
		EventID:  event.ID,
		AuthorID: userID,
		Text:     text,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		internalError(ctx, "Failed to create comment: %v", err)
		return
	}

	if err := db.DB.First(&comment.Author, userID).Error; err != nil {
		internalError(ctx, "Failed to load comment author: %v", err)
		return
	}

	services.RecordActivity(db.DB, services.ActivityEntry{
		UserID:  userID,
		Kind:    types.ActivityCommentPosted,
		EventID: event.ID,
		Detail:  event.Title,
	})

	ctx.JSON(http.StatusCreated, gin.H{"comment": types.NewCommentResponse(comment)})
}

// DeleteComment is allowed for the comment's author and the event's host.
func DeleteComment(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	eventID, commentID, err := utils.GetEventCommentID(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comment models.EventComment

	err = db.DB.Preload("Event").
		Where("id = ? AND event_id = ?", commentID, eventID).
		First(&comment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		internalError(ctx, "Failed to retrieve comment %d: %v", commentID, err)
		return
	}

	if comment.AuthorID != userID && comment.Event.HostID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You cannot delete this comment"})
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		internalError(ctx, "Failed to delete comment %d: %v", commentID, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
