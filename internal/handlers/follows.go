package handlers

import (
	"net/http"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

func followersCount(userID uint) (int64, error) {
	var count int64
	err := db.DB.Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func FollowUser(ctx *gin.Context) {
	followerID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	target, ok := loadUser(ctx)
	if !ok {
		return
	}

	if target.ID == followerID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
		return
	}

	follow := models.Follow{FollowerID: followerID, FollowedID: target.ID}

	result := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)

	if result.Error != nil {
		internalError(ctx, "Failed to follow user %d: %v", target.ID, result.Error)
		return
	}

	if result.RowsAffected > 0 {
		services.RecordActivity(db.DB, services.ActivityEntry{
			UserID:       followerID,
			Kind:         types.ActivityFollowed,
			TargetUserID: target.ID,
			Detail:       target.Username,
		})
	}

	count, err := followersCount(target.ID)
	if err != nil {
		internalError(ctx, "Failed to count followers: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"following": true, "followers_count": count})
}

func UnfollowUser(ctx *gin.Context) {
	followerID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	target, ok := loadUser(ctx)
	if !ok {
		return
	}

	result := db.DB.Where("follower_id = ? AND followed_id = ?", followerID, target.ID).Delete(&models.Follow{})

	if result.Error != nil {
		internalError(ctx, "Failed to unfollow user %d: %v", target.ID, result.Error)
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "You are not following this user"})
		return
	}

	count, err := followersCount(target.ID)
	if err != nil {
		internalError(ctx, "Failed to count followers: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"following": false, "followers_count": count})
}

// listFollowGraph pages through the users on the other side of userColumn.
func listFollowGraph(ctx *gin.Context, userColumn, otherColumn string) {
	user, ok := loadUser(ctx)
	if !ok {
		return
	}

	pagination := utils.ParsePagination(ctx, "created_at", "desc")

	ids := db.DB.Model(&models.Follow{}).Select(otherColumn).Where(userColumn+" = ?", user.ID)

	var total int64
	if err := db.DB.Model(&models.User{}).Where("id IN (?)", ids).Count(&total).Error; err != nil {
		internalError(ctx, "Failed to count follows: %v", err)
		return
	}

	var users []models.User

	err := db.DB.Where("id IN (?)", ids).
		Order("username ASC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&users).Error

	if err != nil {
		internalError(ctx, "Failed to list follows: %v", err)
		return
	}

	response := make([]types.UserSummary, 0, len(users))
	for _, u := range users {
		response = append(response, types.NewUserSummary(u))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users": response,
		"meta":  utils.BuildMeta(total, pagination),
	})
}

func ListFollowers(ctx *gin.Context) {
	listFollowGraph(ctx, "followed_id", "follower_id")
}

func ListFollowing(ctx *gin.Context) {
	listFollowGraph(ctx, "follower_id", "followed_id")
}
