package handlers

import (
	"net/http"
	"strings"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var userSortColumns = map[string]string{
	"username":   "username",
	"created_at": "created_at",
}

func searchUsers(q string) *gorm.DB {
	query := db.DB.Model(&models.User{})

	if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	return query
}

func ListUsers(ctx *gin.Context) {
	pagination := utils.ParsePagination(ctx, "username", "asc")
	q := ctx.Query("q")

	var total int64
	if err := searchUsers(q).Count(&total).Error; err != nil {
		internalError(ctx, "Failed to count users: %v", err)
		return
	}

	var users []models.User

	err := searchUsers(q).
		Order(pagination.OrderClause(userSortColumns, "username")).
		Order("id ASC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&users).Error

	if err != nil {
		internalError(ctx, "Failed to list users: %v", err)
		return
	}

	response := make([]types.UserSummary, 0, len(users))
	for _, user := range users {
		response = append(response, types.NewUserSummary(user))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users": response,
		"meta":  utils.BuildMeta(total, pagination),
	})
}

type ratingAggregate struct {
	Count   int64
	Average *float64
}

func reviewAggregate(targetID uint) (ratingAggregate, error) {
	var agg ratingAggregate

	err := db.DB.Model(&models.UserReview{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Where("target_id = ?", targetID).
		Scan(&agg).Error

	return agg, err
}

func GetUser(ctx *gin.Context) {
	user, ok := loadUser(ctx)
	if !ok {
		return
	}

	viewerID := utils.GetOptionalUserID(ctx)

	profile := types.ProfileResponse{
		UserResponse: types.NewUserResponse(user, viewerID == user.ID),
	}

	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&profile.FollowersCount, db.DB.Model(&models.Follow{}).Where("followed_id = ?", user.ID)},
		{&profile.FollowingCount, db.DB.Model(&models.Follow{}).Where("follower_id = ?", user.ID)},
		{&profile.HostedCount, db.DB.Model(&models.Event{}).Where("host_id = ?", user.ID)},
	}

	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			internalError(ctx, "Failed to count profile stats for user %d: %v", user.ID, err)
			return
		}
	}

	agg, err := reviewAggregate(user.ID)
	if err != nil {
		internalError(ctx, "Failed to aggregate reviews for user %d: %v", user.ID, err)
		return
	}

	profile.ReviewsCount = agg.Count
	profile.AverageRating = agg.Average

	if viewerID != 0 && viewerID != user.ID {
		var following int64

		err := db.DB.Model(&models.Follow{}).
			Where("follower_id = ? AND followed_id = ?", viewerID, user.ID).
			Count(&following).Error

		if err != nil {
			internalError(ctx, "Failed to check follow state: %v", err)
			return
		}

		profile.IsFollowing = following > 0
	}

	ctx.JSON(http.StatusOK, gin.H{"user": profile})
}

// GetUserEvents returns hosted events and, separately, the events the user
// joined as a guest.
func GetUserEvents(ctx *gin.Context) {
	user, ok := loadUser(ctx)
	if !ok {
		return
	}

	viewerID := utils.GetOptionalUserID(ctx)

	var hosted []models.Event

	err := db.DB.Preload("Host").Preload("Tags").
		Where("host_id = ?", user.ID).
		Order("event_date ASC").
		Find(&hosted).Error

	if err != nil {
		internalError(ctx, "Failed to load hosted events for user %d: %v", user.ID, err)
		return
	}

	var joined []models.Event

	err = db.DB.Preload("Host").Preload("Tags").
		Where("host_id <> ?", user.ID).
		Where("id IN (?)", db.DB.Model(&models.EventParticipant{}).Select("event_id").Where("user_id = ?", user.ID)).
		Order("event_date ASC").
		Find(&joined).Error

	if err != nil {
		internalError(ctx, "Failed to load joined events for user %d: %v", user.ID, err)
		return
	}

	hostedResponse, err := buildEventResponses(hosted, viewerID)
	if err != nil {
		internalError(ctx, "Failed to build event responses: %v", err)
		return
	}

	joinedResponse, err := buildEventResponses(joined, viewerID)
	if err != nil {
		internalError(ctx, "Failed to build event responses: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"hosted": hostedResponse,
		"joined": joinedResponse,
	})
}
