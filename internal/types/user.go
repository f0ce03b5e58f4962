package types

import (
	"encoding/json"
	"time"

	"github.com/JakubEth/gramytu/internal/models"
)

// Preferences is what the onboarding quiz derives from a user's answers.
type Preferences struct {
	FavoriteGenres  []string `json:"favorite_genres"`
	PlayStyle       string   `json:"play_style"`
	GroupSize       string   `json:"group_size"`
	Experience      string   `json:"experience"`
	PersonalityType string   `json:"personality_type"`
}

type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type UserResponse struct {
	ID                  uint         `json:"id"`
	Username            string       `json:"username"`
	Email               string       `json:"email,omitempty"`
	Name                string       `json:"name"`
	Bio                 string       `json:"bio"`
	AvatarURL           string       `json:"avatar_url"`
	City                string       `json:"city"`
	OnboardingCompleted bool         `json:"onboarding_completed"`
	Preferences         *Preferences `json:"preferences,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
}

type ProfileResponse struct {
	UserResponse

	FollowersCount int64    `json:"followers_count"`
	FollowingCount int64    `json:"following_count"`
	HostedCount    int64    `json:"hosted_count"`
	ReviewsCount   int64    `json:"reviews_count"`
	AverageRating  *float64 `json:"average_rating"`
	IsFollowing    bool     `json:"is_following"`
}

type ReviewResponse struct {
	ID        uint        `json:"id"`
	Author    UserSummary `json:"author"`
	TargetID  uint        `json:"target_id"`
	Rating    int         `json:"rating"`
	Comment   string      `json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type ActivityResponse struct {
	ID           uint      `json:"id"`
	Kind         string    `json:"kind"`
	EventID      *uint     `json:"event_id,omitempty"`
	TargetUserID *uint     `json:"target_user_id,omitempty"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}

// NewUserResponse includes the email only when withEmail is set, i.e. for the
// account owner.
func NewUserResponse(user models.User, withEmail bool) UserResponse {
	response := UserResponse{
		ID:                  user.ID,
		Username:            user.Username,
		Name:                user.Name,
		Bio:                 user.Bio,
		AvatarURL:           user.AvatarURL,
		City:                user.City,
		OnboardingCompleted: user.OnboardingCompleted,
		CreatedAt:           user.CreatedAt,
	}

	if withEmail {
		response.Email = user.Email
	}

	if len(user.Preferences) > 0 {
		var prefs Preferences
		if err := json.Unmarshal(user.Preferences, &prefs); err == nil {
			response.Preferences = &prefs
		}
	}

	return response
}

func NewReviewResponse(review models.UserReview) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		Author:    NewUserSummary(review.Author),
		TargetID:  review.TargetID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func NewActivityResponse(activity models.UserActivity) ActivityResponse {
	return ActivityResponse{
		ID:           activity.ID,
		Kind:         activity.Kind,
		EventID:      activity.EventID,
		TargetUserID: activity.TargetUserID,
		Detail:       activity.Detail,
		CreatedAt:    activity.CreatedAt,
	}
}
