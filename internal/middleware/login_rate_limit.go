package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimit caps login attempts per client IP using Redis. It fails
// open: without a cache, or on cache errors, requests pass through.
func LoginRateLimit(cache *redis.Client, maxPerMin int) gin.HandlerFunc {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *gin.Context) {
		if cache == nil {
			c.Next()
			return
		}

		key := "rl:login:" + c.ClientIP()
		ctx := c.Request.Context()

		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if cnt == 1 {
			cache.Expire(ctx, key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
			return
		}
		c.Next()
	}
}
