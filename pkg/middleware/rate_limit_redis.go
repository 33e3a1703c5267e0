package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
	"github.com/quillpress/quillpress/backend/go-services/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every replica.
// Each key may make floor(rps*windowSeconds)+burst requests per window.
// Without a client it falls back to the in-process limiter.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowedPerWindow := int(rps*float64(windowSeconds)) + burst
	ttl := time.Duration(windowSeconds+1) * time.Second
	return func(c *gin.Context) {
		bucket := time.Now().Unix() / int64(windowSeconds)
		redisKey := fmt.Sprintf("rl:%s:%d", limiterKey(c), bucket)

		// INCR and EXPIRE run in one MULTI; every counter carries a TTL
		var incr *redis.IntCmd
		_, err := client.TxPipelined(c.Request.Context(), func(p redis.Pipeliner) error {
			incr = p.Incr(c.Request.Context(), redisKey)
			p.Expire(c.Request.Context(), redisKey, ttl)
			return nil
		})
		if err != nil {
			logger.Errorf("rate limit check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			return
		}
		if int(incr.Val()) > allowedPerWindow {
			c.Header("Retry-After", strconv.Itoa(windowSeconds))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
