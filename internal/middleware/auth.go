package middleware

import (
	"net/http"
	"strings"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/auth"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/gin-gonic/gin"
)

type AuthenticatedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// extractToken looks at the Authorization header first, then the token cookie,
// then the token query parameter (browsers cannot set headers on a WebSocket
// handshake).
func extractToken(ctx *gin.Context) (string, string) {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", "Authorization header format must be Bearer {token}"
		}

		return parts[1], ""
	}

	if cookie, err := ctx.Cookie("token"); err == nil && cookie != "" {
		return cookie, ""
	}

	if token := ctx.Query("token"); token != "" {
		return token, ""
	}

	return "", "Authorization token is required"
}

func loadUser(tokenString string) (*AuthenticatedUser, string) {
	userID, err := auth.UserIDFromToken(tokenString)

	if err != nil {
		return nil, "Invalid or expired token"
	}

	var user models.User

	if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, "User not found"
	}

	return &AuthenticatedUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, ""
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, problem := extractToken(ctx)

		if problem != "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		user, problem := loadUser(tokenString)

		if problem != "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		ctx.Set(types.ContextUserKey, *user)
		ctx.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, problem := extractToken(ctx)

		if problem == "" {
			if user, problem := loadUser(tokenString); problem == "" {
				ctx.Set(types.ContextUserKey, *user)
			}
		}

		ctx.Next()
	}
}
