package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/auth"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,username"`
	Email    string `json:"email" binding:"required,email,max=190"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"max=120"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Username        *string `json:"username" binding:"omitempty,min=3,max=50,username"`
	Email           *string `json:"email" binding:"omitempty,email,max=190"`
	Name            *string `json:"name" binding:"omitempty,max=120"`
	Bio             *string `json:"bio" binding:"omitempty,max=1000"`
	AvatarURL       *string `json:"avatar_url" binding:"omitempty,url,max=500"`
	City            *string `json:"city" binding:"omitempty,max=120"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password" binding:"omitempty,min=8,max=72"`
}

func setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func issueToken(ctx *gin.Context, user models.User, status int) {
	token, err := auth.GenerateJWT(user.ID, user.Username)

	if err != nil {
		internalError(ctx, "Failed to generate JWT: %v", err)
		return
	}

	setTokenCookie(ctx, token, int(auth.TokenTTL().Seconds()))

	ctx.JSON(status, gin.H{
		"user":  types.NewUserResponse(user, true),
		"token": token,
	})
}

// identityTaken reports which of username/email already belongs to another user.
func identityTaken(username, email string, exceptID uint) (string, error) {
	var existing models.User

	query := db.DB.Where("LOWER(username) = ? OR email = ?", strings.ToLower(username), email)

	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}

	err := query.First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	if email != "" && existing.Email == email {
		return "Email already exists", nil
	}

	return "Username already exists", nil
}

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	conflict, err := identityTaken(req.Username, req.Email, 0)

	if err != nil {
		internalError(ctx, "Database error when checking existing user: %v", err)
		return
	}

	if conflict != "" {
		ctx.JSON(http.StatusConflict, gin.H{"error": conflict})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		internalError(ctx, "Failed to hash password: %v", err)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(passwordHash),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		internalError(ctx, "Failed to create user: %v", err)
		return
	}

	services.RecordActivity(db.DB, services.ActivityEntry{
		UserID: user.ID,
		Kind:   types.ActivityRegistered,
	})

	issueToken(ctx, user, http.StatusCreated)
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	login := strings.TrimSpace(req.Login)

	var user models.User

	err := db.DB.Where("email = ? OR username = ?", strings.ToLower(login), login).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		internalError(ctx, "Database error when fetching user: %v", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	issueToken(ctx, user, http.StatusOK)
}

func Logout(ctx *gin.Context) {
	setTokenCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func Me(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		internalError(ctx, "Failed to fetch user: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(user, true)})
}

func UpdateMe(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var dbUser models.User
	if err := db.DB.First(&dbUser, currentUser.ID).Error; err != nil {
		internalError(ctx, "Failed to fetch user: %v", err)
		return
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*req.AvatarURL)
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(*req.City)
	}

	newUsername := ""
	if req.Username != nil && strings.TrimSpace(*req.Username) != dbUser.Username {
		newUsername = strings.TrimSpace(*req.Username)
	}

	newEmail := ""
	if req.Email != nil && strings.ToLower(strings.TrimSpace(*req.Email)) != dbUser.Email {
		newEmail = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if newUsername != "" || newEmail != "" {
		conflict, err := identityTaken(newUsername, newEmail, dbUser.ID)

		if err != nil {
			internalError(ctx, "Database error when checking existing user: %v", err)
			return
		}

		if conflict != "" {
			ctx.JSON(http.StatusConflict, gin.H{"error": conflict})
			return
		}

		if newUsername != "" {
			updates["username"] = newUsername
		}
		if newEmail != "" {
			updates["email"] = newEmail
		}
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is required to change password"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			internalError(ctx, "Failed to hash new password: %v", err)
			return
		}

		updates["password_hash"] = string(passwordHash)
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&dbUser).Updates(updates).Error; err != nil {
		internalError(ctx, "Failed to update user: %v", err)
		return
	}

	if err := db.DB.First(&dbUser, dbUser.ID).Error; err != nil {
		internalError(ctx, "Failed to refresh user data: %v", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    types.NewUserResponse(dbUser, true),
	})
}

func DeleteMe(ctx *gin.Context) {
	userID, ok := currentUserOrAbort(ctx)
	if !ok {
		return
	}

	var dbUser models.User
	if err := db.DB.First(&dbUser, userID).Error; err != nil {
		internalError(ctx, "Failed to fetch user: %v", err)
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password is required for account deletion"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect password"})
		return
	}

	var hostedIDs []uint
	if err := db.DB.Model(&models.Event{}).Where("host_id = ?", dbUser.ID).Pluck("id", &hostedIDs).Error; err != nil {
		internalError(ctx, "Failed to list hosted events: %v", err)
		return
	}

	// Hosted events, participations, messages and activity go with the row.
	if err := db.DB.Delete(&dbUser).Error; err != nil {
		internalError(ctx, "Failed to delete user: %v", err)
		return
	}

	for _, eventID := range hostedIDs {
		chatHub.CloseRoom(eventID)
	}
	chatHub.DisconnectUser(dbUser.ID)

	setTokenCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
