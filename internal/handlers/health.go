package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/JakubEth/gramytu/db"
	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	checks := gin.H{"database": "ok"}
	status := "ok"
	code := http.StatusOK

	if err := db.Ping(); err != nil {
		log.Printf("Health check: database ping failed: %v", err)
		checks["database"] = "down"
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Health check: redis ping failed: %v", err)
			checks["redis"] = "down"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"message":   "GramyTu is running",
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
