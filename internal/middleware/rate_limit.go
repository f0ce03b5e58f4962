package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter returns a fixed-window limiter. A nil client disables it.
func NewRateLimiter(redisClient *redis.Client, limitPerMinute int) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limitPerMinute,
		window: time.Minute,
	}
}

func (r *RateLimiter) Limit(scope string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if r == nil || r.redis == nil || r.limit <= 0 {
			ctx.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, ctx.ClientIP())

		count, err := r.redis.Incr(ctx.Request.Context(), key).Result()

		if err != nil {
			// Redis being down must not lock users out
			log.Printf("ratelimit: incr %s failed: %v", key, err)
			ctx.Next()
			return
		}

		if count == 1 {
			if err := r.redis.Expire(ctx.Request.Context(), key, r.window).Err(); err != nil {
				log.Printf("ratelimit: expire %s failed: %v", key, err)
			}
		}

		if count > int64(r.limit) {
			ctx.Header("Retry-After", strconv.Itoa(int(r.window.Seconds())))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		ctx.Next()
	}
}
