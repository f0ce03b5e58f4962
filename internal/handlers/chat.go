package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/JakubEth/gramytu/internal/chat"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

type MessageRequest struct {
	Text string `json:"text"`
}

func chatError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrNotMember):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You are not a participant of this event"})
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrMessageTooLong):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		internalError(ctx, "Chat operation failed: %v", err)
	}
}

// GetMessages returns one page of history, oldest first. ?before= pages back
// from a message ID.
func GetMessages(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	member, err := chatStore.IsMember(event.ID, userID)
	if err != nil {
		internalError(ctx, "Failed to check membership: %v", err)
		return
	}

	if !member {
		chatError(ctx, chat.ErrNotMember)
		return
	}

	var before uint64
	if raw := ctx.Query("before"); raw != "" {
		before, err = strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid before cursor"})
			return
		}
	}

	limit := defaultHistoryLimit
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := chatStore.History(event.ID, uint(before), limit)
	if err != nil {
		internalError(ctx, "Failed to load history for event %d: %v", event.ID, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"has_more": len(messages) == limit,
	})
}

func PostMessage(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	var req MessageRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message, err := chatHub.SendMessage(event.ID, userID, req.Text, "http")
	if err != nil {
		chatError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": message})
}

func MarkMessagesRead(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	count, err := chatHub.MarkRead(event.ID, user.ID, user.Username)
	if err != nil {
		chatError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"marked": count})
}

func GetUnreadCounts(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	counts, err := chatStore.UnreadCounts(userID)
	if err != nil {
		internalError(ctx, "Failed to count unread messages for user %d: %v", userID, err)
		return
	}

	var total int64
	for _, c := range counts {
		total += c.Count
	}

	ctx.JSON(http.StatusOK, gin.H{"unread": counts, "total": total})
}
