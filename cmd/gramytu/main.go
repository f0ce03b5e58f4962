package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/JakubEth/gramytu/internal/auth"
	"github.com/JakubEth/gramytu/internal/chat"
	"github.com/JakubEth/gramytu/internal/config"
	"github.com/JakubEth/gramytu/internal/handlers"
	"github.com/JakubEth/gramytu/internal/middleware"
	"github.com/JakubEth/gramytu/internal/router"
	"github.com/JakubEth/gramytu/internal/scheduler"
	"github.com/JakubEth/gramytu/internal/services"
	"github.com/JakubEth/gramytu/internal/types"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func newRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	opts.MaxRetries = 3

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	types.SetAllowedOrigins(cfg.AllowedOrigins)

	if err := auth.InitJWT(cfg.JWTSecret, cfg.JWTTTL); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var redisClient *redis.Client

	if cfg.RedisURL != "" {
		client, err := newRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("Redis unavailable, rate limiting disabled: %v", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Println("Connected to Redis")
		}
	}

	hub := chat.NewHub(chat.GormStore{})
	announcer := services.NewAnnouncer(cfg.DiscordWebhookURL, cfg.SlackWebhookURL)

	jobs := scheduler.NewScheduler(cfg.ReminderWindow, cfg.ActivityRetention)
	if err := jobs.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	r := router.NewRouter(router.Options{
		Dependencies: handlers.Dependencies{
			Hub:       hub,
			Announcer: announcer,
			Redis:     redisClient,
			Domain:    cfg.Domain,
		},
		RateLimiter:   middleware.NewRateLimiter(redisClient, cfg.RateLimitPerMinute),
		EnableMetrics: cfg.EnableMetrics,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	hub.Shutdown()
	jobs.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}

	log.Println("Server exited properly")
}
