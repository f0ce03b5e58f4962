package router

import (
	"log"
	"time"

	"github.com/JakubEth/gramytu/internal/handlers"
	"github.com/JakubEth/gramytu/internal/middleware"
	"github.com/JakubEth/gramytu/internal/monitoring"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/JakubEth/gramytu/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Options struct {
	Dependencies  handlers.Dependencies
	RateLimiter   *middleware.RateLimiter
	EnableMetrics bool
}

func NewRouter(opts Options) *gin.Engine {
	handlers.Configure(opts.Dependencies)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := utils.RegisterValidators(v); err != nil {
			log.Printf("Failed to register validators: %v", err)
		}
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())

	if opts.EnableMetrics {
		r.Use(monitoring.RequestMetrics())
		r.GET("/metrics", monitoring.Handler())
	}

	limiter := opts.RateLimiter

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", limiter.Limit("register"), handlers.Register)
			auth.POST("/login", limiter.Limit("login"), handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateMe)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteMe)
		}

		onboarding := api.Group("/onboarding")
		{
			onboarding.GET("/quiz", handlers.GetQuiz)
			onboarding.POST("/quiz", middleware.AuthMiddleware(), handlers.SubmitQuiz)
		}

		users := api.Group("/users")
		{
			users.GET("", handlers.ListUsers)
			users.GET("/:user_id", middleware.OptionalAuth(), handlers.GetUser)
			users.GET("/:user_id/events", middleware.OptionalAuth(), handlers.GetUserEvents)
			users.GET("/:user_id/followers", handlers.ListFollowers)
			users.GET("/:user_id/following", handlers.ListFollowing)
			users.GET("/:user_id/reviews", handlers.ListReviews)
			users.GET("/:user_id/activity", middleware.AuthMiddleware(), handlers.ListUserActivity)

			users.POST("/:user_id/follow", middleware.AuthMiddleware(), handlers.FollowUser)
			users.DELETE("/:user_id/follow", middleware.AuthMiddleware(), handlers.UnfollowUser)
			users.POST("/:user_id/reviews", middleware.AuthMiddleware(), handlers.CreateReview)
			users.DELETE("/:user_id/reviews", middleware.AuthMiddleware(), handlers.DeleteReview)
		}

		events := api.Group("/events")
		{
			events.GET("", middleware.OptionalAuth(), handlers.ListEvents)
			events.GET("/recommended", middleware.AuthMiddleware(), handlers.RecommendedEvents)
			events.GET("/:event_id", middleware.OptionalAuth(), handlers.GetEvent)
			events.GET("/:event_id/comments", handlers.ListComments)
			events.GET("/:event_id/participants", handlers.ListParticipants)
		}

		authed := events.Group("", middleware.AuthMiddleware())
		{
			authed.POST("", handlers.CreateEvent)
			authed.PATCH("/:event_id", handlers.UpdateEvent)
			authed.DELETE("/:event_id", handlers.DeleteEvent)

			authed.POST("/:event_id/join", handlers.JoinEvent)
			authed.DELETE("/:event_id/join", handlers.LeaveEvent)
			authed.POST("/:event_id/like", handlers.LikeEvent)
			authed.DELETE("/:event_id/like", handlers.UnlikeEvent)

			authed.POST("/:event_id/comments", handlers.CreateComment)
			authed.DELETE("/:event_id/comments/:comment_id", handlers.DeleteComment)

			authed.GET("/:event_id/messages", handlers.GetMessages)
			authed.POST("/:event_id/messages", handlers.PostMessage)
			authed.POST("/:event_id/messages/read", handlers.MarkMessagesRead)
		}

		api.GET("/chats/unread", middleware.AuthMiddleware(), handlers.GetUnreadCounts)
	}

	return r
}
