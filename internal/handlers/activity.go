package handlers

import (
	"net/http"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func activityQuery(userID uint, kind string) *gorm.DB {
	query := db.DB.Model(&models.UserActivity{}).Where("user_id = ?", userID)

	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	return query
}

// ListUserActivity pages through the user's activity log, newest first.
// ?kind= narrows it to one activity kind.
func ListUserActivity(ctx *gin.Context) {
	user, ok := loadUser(ctx)
	if !ok {
		return
	}

	pagination := utils.ParsePagination(ctx, "created_at", "desc")
	kind := ctx.Query("kind")

	var total int64
	if err := activityQuery(user.ID, kind).Count(&total).Error; err != nil {
		internalError(ctx, "Failed to count activity for user %d: %v", user.ID, err)
		return
	}

	var activities []models.UserActivity

	err := activityQuery(user.ID, kind).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&activities).Error

	if err != nil {
		internalError(ctx, "Failed to list activity for user %d: %v", user.ID, err)
		return
	}

	response := make([]types.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		response = append(response, types.NewActivityResponse(activity))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"activities": response,
		"meta":       utils.BuildMeta(total, pagination),
	})
}
